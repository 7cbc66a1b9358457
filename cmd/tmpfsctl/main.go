package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "tmpfsctl COMMAND",
		Short:         "Convert container tmpfs configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts.logLevel)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.logLevel, "log-level", "l", "info", `Set the logging level ("debug"|"info"|"warn"|"error"|"fatal")`)

	cmd.AddCommand(
		newEncodeCommand(),
		newDecodeCommand(),
		newSpecCommand(),
	)
	return cmd
}

func setupLogging(out io.Writer, level string) error {
	logrus.SetOutput(out)
	if err := log.SetFormat(log.TextFormat); err != nil {
		return err
	}
	if err := log.SetLevel(level); err != nil {
		return fmt.Errorf("unable to parse logging level: %s", level)
	}
	return nil
}

func main() {
	ctx := log.WithLogger(context.Background(), log.L.WithField("cmd", "tmpfsctl"))
	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tmpfsctl:", err)
		os.Exit(1)
	}
}
