package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/accountdesk/internal/application"
	"github.com/ericfisherdev/accountdesk/internal/config"
	"github.com/ericfisherdev/accountdesk/internal/storage"
)

// cli holds state shared by all subcommands.
type cli struct {
	out       io.Writer
	errOut    io.Writer
	formatStr string
	format    Format
	logger    *slog.Logger
}

// run executes the command line and returns the process exit code.
func run(args []string, out, errOut io.Writer) int {
	c := &cli{
		out:    out,
		errOut: errOut,
		logger: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	root := c.newRootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	return 0
}

func (c *cli) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "accountctl",
		Short:         "Manage saved accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			f := Format(c.formatStr)
			if !f.Valid() {
				return fmt.Errorf("invalid output format %q (want json, yaml or table)", c.formatStr)
			}
			c.format = f
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.formatStr, "format", "f", string(FormatTable), "Output format: json|yaml|table")

	root.AddCommand(c.newListCommand())
	root.AddCommand(c.newCreateCommand())
	root.AddCommand(c.newUpdateCommand())
	root.AddCommand(c.newDeleteCommand())
	root.AddCommand(c.newLabelsCommand())

	return root
}

// withStore opens the configured storage, loads the accounts and calls fn.
// Storage is closed when fn returns.
func (c *cli) withStore(ctx context.Context, fn func(*application.AccountStore) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	kv, closeStorage, err := storage.Open(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeStorage(); closeErr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", closeErr)
		}
	}()

	return fn(application.NewAccountStore(ctx, kv, c.logger))
}

func (c *cli) writer() Writer {
	return NewWriter(c.out, c.format)
}
