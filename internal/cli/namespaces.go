package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBindCommand creates the bind command.
func NewBindCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind <prefix> <namespace>",
		Short: "Bind a prefix to a namespace",
		Long: `Bind a prefix to a namespace. An existing binding of the prefix,
or of the namespace under another prefix, is replaced.

Example:
  rdfsql bind ex http://example.org/`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBind(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runBind(opts *RootOptions, prefix, namespace string, cmd *cobra.Command) error {
	if prefix == "" || len(prefix) > 20 {
		return NewExitError(ExitCommandError, "prefix must be 1 to 20 characters")
	}
	ns, err := parseNamespace(namespace)
	if err != nil {
		return err
	}

	st, _, err := openStore(cmd, opts, openConfigured)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	if err := st.Bind(cmd.Context(), prefix, ns); err != nil {
		return storeError("bind failed", err)
	}
	return newFormatter(opts, cmd).Result(
		map[string]string{"prefix": prefix, "namespace": ns.IRI},
		[]string{fmt.Sprintf("%s: %s", prefix, ns)},
	)
}

// NewNamespacesCommand creates the namespaces command.
func NewNamespacesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "namespaces",
		Short:         "List namespace bindings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamespaces(rootOpts, cmd)
		},
	}
	return cmd
}

func runNamespaces(opts *RootOptions, cmd *cobra.Command) error {
	st, _, err := openStore(cmd, opts, openExisting)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	bindings, err := st.Namespaces(cmd.Context())
	if err != nil {
		return storeError("query failed", err)
	}
	lines := make([]string, len(bindings))
	for i, b := range bindings {
		lines[i] = fmt.Sprintf("%s: %s", b.Prefix, b.Namespace)
	}
	return newFormatter(opts, cmd).Result(bindings, lines)
}
