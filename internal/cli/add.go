package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfsql/internal/term"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Graph  string
	Quoted bool
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <subject> <predicate> <object>",
		Short: "Add one statement",
		Long: `Add one statement to the store. Terms use N-Triples syntax.

Without --graph the statement is added to the default context.

Example:
  rdfsql add '<http://example.org/tarek>' '<http://example.org/likes>' '"pizza"@en' --graph '<http://example.org/c1>'`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Graph, "graph", "", "context to add the statement to")
	cmd.Flags().BoolVar(&opts.Quoted, "quoted", false, "store as a quoted statement")

	return cmd
}

func runAdd(opts *AddOptions, args []string, cmd *cobra.Command) error {
	var terms [3]term.Term
	for i, name := range []string{"subject", "predicate", "object"} {
		t, err := term.Parse(args[i])
		if err != nil {
			return argumentError(name, err)
		}
		terms[i] = t
	}
	graph, err := parseGraph(opts.Graph)
	if err != nil {
		return err
	}

	st, _, err := openStore(cmd, opts.RootOptions, openConfigured)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	tr := term.Triple{Subject: terms[0], Predicate: terms[1], Object: terms[2]}
	if err := st.Add(cmd.Context(), tr, graph, opts.Quoted); err != nil {
		return storeError("add failed", err)
	}

	out := newFormatter(opts.RootOptions, cmd)
	out.VerboseLog("added %s", tr)
	return out.Result(map[string]any{"added": tr.String()}, []string{fmt.Sprintf("added %s", tr)})
}

// RemoveOptions holds flags for the remove command.
type RemoveOptions struct {
	*RootOptions
	Graph string
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remove [subject predicate object]",
		Short: "Remove matching statements",
		Long: `Remove the statements matching a pattern. Each position is a term,
'*' for any term, '/regex/' or 'a|b' for a list of terms.

With --graph and no pattern, the whole context is removed.

Example:
  rdfsql remove '*' '<http://example.org/likes>' '*'
  rdfsql remove --graph '<http://example.org/c1>'`,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Graph, "graph", "", "only remove from this context")

	return cmd
}

func runRemove(opts *RemoveOptions, args []string, cmd *cobra.Command) error {
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

	before, err := st.Len(cmd.Context(), graph)
	if err != nil {
		return storeError("count failed", err)
	}
	if err := st.Remove(cmd.Context(), pattern, graph); err != nil {
		return storeError("remove failed", err)
	}
	after, err := st.Len(cmd.Context(), graph)
	if err != nil {
		return storeError("count failed", err)
	}

	removed := before - after
	out := newFormatter(opts.RootOptions, cmd)
	return out.Result(map[string]int{"removed": removed}, []string{fmt.Sprintf("removed %d statements", removed)})
}
