package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfsql/internal/config"
	"github.com/roach88/rdfsql/internal/store"
	"github.com/roach88/rdfsql/internal/term"
)

// openMode controls table creation when a command opens the store.
type openMode int

const (
	openConfigured openMode = iota // create per config.Create
	openCreate                     // always create missing tables
	openExisting                   // never create; fail unless valid
)

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stderr in the selected format.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	if !isValidFormat(format) {
		format = "text"
	}
	out := &OutputFormatter{Format: format, Writer: stderr}
	_ = out.Fail(err)

	code := GetExitCode(err)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag and argument errors raised by cobra itself.
		code = ExitCommandError
	}
	return code
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger logs to w at Debug with --verbose, otherwise at Info.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database.URL = opts.Database
	}
	if opts.Identifier != "" {
		cfg.Identifier = opts.Identifier
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return cfg, nil
}

// openStore loads configuration and opens the store. Callers must Close
// the returned store.
func openStore(cmd *cobra.Command, opts *RootOptions, mode openMode) (*store.Store, store.State, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, store.StateNoStore, err
	}
	switch mode {
	case openCreate:
		cfg.Create = true
	case openExisting:
		cfg.Create = false
	}

	logger := newLogger(opts, cmd.ErrOrStderr())
	st, state, err := store.OpenConfig(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, state, storeError("failed to open store", err)
	}
	return st, state, nil
}

func closeStore(st *store.Store, cmd *cobra.Command) {
	if err := st.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error closing store: %v\n", err)
	}
}

// storeError maps a store error to an exit code. A missing or partial
// store is a command error; everything else is a store failure.
func storeError(message string, err error) error {
	if store.IsStoreStateError(err) {
		return WrapExitError(ExitCommandError, message, err)
	}
	return WrapExitError(ExitFailure, message, err)
}

func argumentError(what string, err error) error {
	return WrapExitError(ExitCommandError, "invalid "+what, err)
}

// parsePattern reads zero or three pattern slots.
func parsePattern(args []string) (term.Pattern, error) {
	if len(args) == 0 {
		return term.Pattern{}, nil
	}
	if len(args) != 3 {
		return term.Pattern{}, NewExitError(ExitCommandError,
			fmt.Sprintf("expected 0 or 3 pattern arguments, got %d", len(args)))
	}
	var slots [3]term.Slot
	for i, name := range []string{"subject", "predicate", "object"} {
		s, err := term.ParseSlot(args[i])
		if err != nil {
			return term.Pattern{}, argumentError(name, err)
		}
		slots[i] = s
	}
	return term.Pattern{Subject: slots[0], Predicate: slots[1], Object: slots[2]}, nil
}

// parseGraph reads the --graph flag. An empty value means no graph.
func parseGraph(text string) (term.Term, error) {
	if text == "" {
		return nil, nil
	}
	g, err := term.Parse(text)
	if err != nil {
		return nil, argumentError("graph", err)
	}
	return g, nil
}
