package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	verbose bool
	log     *zap.Logger
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "mcodec",
		Short:         "Encode, decode and describe values in the managed boundary format",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !g.verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			g.log = l
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		newEncodeCommand(g),
		newDecodeCommand(g),
		newDescribeCommand(g),
		newInteractiveCommand(g),
	)
	return root
}
