package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"crnc/internal/ir"
	"crnc/repl"
)

// EvalOptions holds flags shared by eval and repl.
type EvalOptions struct {
	*RootOptions
	ModelFile string
	Model     string
	Set       []string
}

func (o *EvalOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.ModelFile, "with", "", "model file whose entities formulas may use")
	cmd.Flags().StringVarP(&o.Model, "model", "m", "", "model to use when the file holds several")
	cmd.Flags().StringArrayVarP(&o.Set, "set", "s", nil, "bind name=value (repeatable)")
}

// session builds a repl session from the flags.
func (o *EvalOptions) session(cmd *cobra.Command) (*repl.Session, error) {
	var net *ir.Network
	if o.ModelFile != "" {
		loaded, _, err := loadModel(o.ModelFile, o.Model, cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		net = loaded
	}

	s := repl.NewSession(net)
	for _, binding := range o.Set {
		name, value, ok := strings.Cut(binding, "=")
		if !ok {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("--set %q: expected name=value", binding))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("--set %q", binding), err)
		}
		s.Bind(strings.TrimSpace(name), v)
	}
	return s, nil
}

// NewEvalCommand evaluates formulas given on the command line.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <formula>...",
		Short: "Evaluate kinetic-law formulas",
		Long: `Evaluate each formula and print its canonical form and value.

Formulas may be 'let name = formula' bindings, visible to later formulas.`,
		Example: `  crnc eval "let Km = 2" "10 * 4 / (Km + 4)"
  crnc eval --with toggle.crn --set U=0 "alpha / (1 + U ^ beta)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			for _, formula := range args {
				out, err := s.Eval(formula)
				if err != nil {
					failure(cmd.ErrOrStderr(), "%s: %v", formula, err)
					return WrapExitError(ExitFailure, "evaluation failed", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	opts.addFlags(cmd)
	return cmd
}

// NewReplCommand starts an interactive formula session.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Evaluate formulas interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			repl.Start(cmd.OutOrStdout(), s)
			return nil
		},
	}

	opts.addFlags(cmd)
	return cmd
}
