package cli

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose int
	LogFile string
}

// NewRootCommand creates the root command for the crnc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "crnc",
		Short: "crnc - chemical reaction network compiler",
		Long: `Compile chemical reaction network models written in the .crn format.

Models are parsed and checked, simplified by a configurable pipeline of
abstraction passes, and written back as .crn source or as a report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.Verbose, opts.LogFile)
		},
	}

	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "increase log verbosity (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file instead of stderr")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewPassesCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))

	return cmd
}

func configureLogging(verbosity int, file string) {
	var path *string
	if file != "" {
		path = &file
	}
	commonlog.Configure(verbosity, path)
}
