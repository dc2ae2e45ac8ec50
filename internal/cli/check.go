package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crnc/grammar"
	"crnc/internal/errors"
)

// NewCheckCommand reports diagnostics without running passes.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "check <model.crn>",
		Short: "Report errors and warnings in a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			errOut := cmd.ErrOrStderr()
			net, diags, err := loadModel(args[0], model, errOut)
			if err != nil {
				failure(errOut, "%v", err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d species, %d reactions, %d parameters\n",
				net.ID, len(net.ListSpecies()), len(net.ListReactions()), net.Symbols.Len())
			if len(diags) > 0 {
				success(errOut, "%s is valid (%s)", args[0], errors.Summary(diags))
			} else {
				success(errOut, "%s is valid", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model to check when the file holds several")
	return cmd
}

// NewFmtCommand prints a model file in canonical layout.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <model.crn>",
		Short: "Reformat a model file",
		Long:  "Print a .crn file in canonical layout. Comments are not preserved.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := os.ReadFile(path)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read model", err)
			}

			formatted, err := grammar.Format(path, string(source))
			if err != nil {
				failure(cmd.ErrOrStderr(), "%v", grammar.Diagnostic(err))
				return WrapExitError(ExitFailure, "cannot format "+path, err)
			}

			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), formatted)
				return err
			}
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				return WrapExitError(ExitCommandError, "failed to write "+path, err)
			}
			log.Infof("formatted %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	return cmd
}
