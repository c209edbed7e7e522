package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Execute runs the oasgen CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "oasgen",
		Short:         "Generate OpenAPI 3.0 documents from an API manifest",
		Long:          "oasgen builds OpenAPI 3.0 documents from a YAML manifest of endpoints and types, and serves them with a documentation UI.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(flagError)
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newServeCmd()} {
		sub.SetFlagErrorFunc(flagError)
		cmd.AddCommand(sub)
	}

	return cmd
}

// flagError converts cobra flag errors into usage errors that include the
// command help.
func flagError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}

func manifestArg(c *cobra.Command, args []string) error {
	if len(args) != 1 {
		return newUsageError(fmt.Sprintf("%s: expected exactly one manifest path, got %d\n\n%s", c.Name(), len(args), c.UsageString()))
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
