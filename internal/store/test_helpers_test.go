package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/rdfsql/internal/config"
	"github.com/roach88/rdfsql/internal/term"
	"github.com/roach88/rdfsql/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestStore opens a fresh file-backed SQLite store.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	return openTestStore(t, testutil.SQLiteURL(t), opts...)
}

func openTestStore(t *testing.T, url string, opts ...Option) *Store {
	t.Helper()
	s := New("http://example.org/store", append([]Option{WithLogger(discardLogger())}, opts...)...)
	state, err := s.Open(context.Background(), config.Database{URL: url}, true)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if state != StateValid {
		t.Fatalf("Open() state = %v, want valid", state)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustAdd(t *testing.T, s *Store, tr term.Triple, graph term.Term) {
	t.Helper()
	if err := s.Add(context.Background(), tr, graph, false); err != nil {
		t.Fatalf("Add(%s) failed: %v", tr, err)
	}
}

func mustMatches(t *testing.T, s *Store, pat term.Pattern, graph term.Term) []Match {
	t.Helper()
	matches, err := s.Matches(context.Background(), pat, graph)
	if err != nil {
		t.Fatalf("Matches(%v) failed: %v", pat, err)
	}
	return matches
}

func mustLen(t *testing.T, s *Store, graph term.Term) int {
	t.Helper()
	n, err := s.Len(context.Background(), graph)
	if err != nil {
		t.Fatalf("Len() failed: %v", err)
	}
	return n
}

func tripleSet(matches []Match) map[term.Triple]bool {
	out := make(map[term.Triple]bool, len(matches))
	for _, m := range matches {
		out[m.Triple] = true
	}
	return out
}

func rowCount(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM "` + table + `"`).Scan(&n); err != nil {
		t.Fatalf("count %s failed: %v", table, err)
	}
	return n
}
