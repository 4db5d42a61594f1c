package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfsql/internal/term"
)

// TriplesOptions holds flags for the triples command.
type TriplesOptions struct {
	*RootOptions
	Graph string
}

// tripleJSON is one match in JSON output.
type tripleJSON struct {
	Subject   string   `json:"subject"`
	Predicate string   `json:"predicate"`
	Object    string   `json:"object"`
	Contexts  []string `json:"contexts"`
}

// NewTriplesCommand creates the triples command.
func NewTriplesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TriplesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "triples [subject predicate object]",
		Short: "List statements matching a pattern",
		Long: `List the statements matching a pattern, one N-Quads line per
context the statement was found in.

Quoted statements are only listed when --graph names their context.

Example:
  rdfsql triples
  rdfsql triples '*' '<http://example.org/likes>' '/pizza/'`,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTriples(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Graph, "graph", "", "only search this context")

	return cmd
}

func runTriples(opts *TriplesOptions, args []string, cmd *cobra.Command) error {
	pattern, err := parsePattern(args)
	if err != nil {
		return err
	}
	graph, err := parseGraph(opts.Graph)
	if err != nil {
		return err
	}

	st, _, err := openStore(cmd, opts.RootOptions, openExisting)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	matches, err := st.Matches(cmd.Context(), pattern, graph)
	if err != nil {
		return storeError("query failed", err)
	}

	data := make([]tripleJSON, 0, len(matches))
	var lines []string
	for _, m := range matches {
		tj := tripleJSON{
			Subject:   m.Triple.Subject.String(),
			Predicate: m.Triple.Predicate.String(),
			Object:    m.Triple.Object.String(),
			Contexts:  termStrings(m.Contexts),
		}
		data = append(data, tj)
		for _, c := range tj.Contexts {
			lines = append(lines, fmt.Sprintf("%s %s %s %s .", tj.Subject, tj.Predicate, tj.Object, c))
		}
	}

	out := newFormatter(opts.RootOptions, cmd)
	out.VerboseLog("%d distinct triples", len(matches))
	return out.Result(data, lines)
}

// NewContextsCommand creates the contexts command.
func NewContextsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contexts [subject predicate object]",
		Short: "List contexts",
		Long: `List the distinct contexts of the store. With a pattern, only
contexts holding a matching statement are listed.`,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContexts(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runContexts(opts *RootOptions, args []string, cmd *cobra.Command) error {
	var filter *term.Pattern
	if len(args) > 0 {
		pattern, err := parsePattern(args)
		if err != nil {
			return err
		}
		filter = &pattern
	}

	st, _, err := openStore(cmd, opts, openExisting)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	contexts, err := st.ContextList(cmd.Context(), filter)
	if err != nil {
		return storeError("query failed", err)
	}
	names := termStrings(contexts)
	return newFormatter(opts, cmd).Result(names, names)
}

// LenOptions holds flags for the len command.
type LenOptions struct {
	*RootOptions
	Graph string
}

// NewLenCommand creates the len command.
func NewLenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "len",
		Short:         "Count distinct statements",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLen(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Graph, "graph", "", "only count this context")

	return cmd
}

func runLen(opts *LenOptions, cmd *cobra.Command) error {
	graph, err := parseGraph(opts.Graph)
	if err != nil {
		return err
	}

	st, _, err := openStore(cmd, opts.RootOptions, openExisting)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	n, err := st.Len(cmd.Context(), graph)
	if err != nil {
		return storeError("count failed", err)
	}
	return newFormatter(opts.RootOptions, cmd).Result(map[string]int{"len": n}, []string{strconv.Itoa(n)})
}

func termStrings(terms []term.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.String()
	}
	return out
}

// parseNamespace accepts a bare IRI or one in angle brackets.
func parseNamespace(text string) (term.URI, error) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "<") {
		s = "<" + s + ">"
	}
	t, err := term.Parse(s)
	if err != nil {
		return term.URI{}, argumentError("namespace", err)
	}
	u, ok := t.(term.URI)
	if !ok {
		return term.URI{}, NewExitError(ExitCommandError, "namespace must be an IRI")
	}
	return u, nil
}
