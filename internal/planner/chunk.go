package planner

import "github.com/roach88/rdfsql/internal/term"

// chunkPattern splits every Choices slot longer than max into chunks of at
// most max terms and returns the cross product of the resulting patterns.
// A pattern without long lists is returned unchanged.
func chunkPattern(pat term.Pattern, max int) []term.Pattern {
	slots := pat.Slots()
	options := make([][]term.Slot, len(slots))
	for i, s := range slots {
		options[i] = chunkSlot(s, max)
	}

	var out []term.Pattern
	for _, s := range options[0] {
		for _, p := range options[1] {
			for _, o := range options[2] {
				out = append(out, term.Pattern{Subject: s, Predicate: p, Object: o})
			}
		}
	}
	return out
}

func chunkSlot(s term.Slot, max int) []term.Slot {
	c, ok := s.(term.Choices)
	if !ok || max <= 0 || len(c) <= max {
		return []term.Slot{s}
	}
	var out []term.Slot
	for start := 0; start < len(c); start += max {
		end := start + max
		if end > len(c) {
			end = len(c)
		}
		out = append(out, c[start:end:end])
	}
	return out
}
