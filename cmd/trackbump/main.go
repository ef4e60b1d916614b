package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/internal/cli"
	pkgerrors "github.com/matzehuels/trackbump/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, pkgerrors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if preRun != nil {
			return preRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps input errors to 2 and everything else to 1.
func exitCode(err error) int {
	switch pkgerrors.GetCode(err) {
	case pkgerrors.ErrCodeInvalidInput, pkgerrors.ErrCodeInvalidMode, pkgerrors.ErrCodeInvalidWindow,
		pkgerrors.ErrCodeInvalidFormat, pkgerrors.ErrCodeInvalidConfig, pkgerrors.ErrCodeMalformedExtent,
		pkgerrors.ErrCodeFileNotFound:
		return 2
	}
	return 1
}
