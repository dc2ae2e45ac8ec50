package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"crnc/internal/backend"
	"crnc/internal/config"
	"crnc/internal/ir"
	"crnc/internal/passes"
)

var log = commonlog.GetLogger("crnc.cli")

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output   string
	Format   string
	Config   string
	Model    string
	Passes   []string
	NoPasses bool
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <model.crn>",
		Short: "Check, simplify and export a model",
		Long: `Build a .crn model, run the abstraction pipeline over it and write the
result as .crn source or as a report.

The pipeline comes from --config (YAML) or the built-in default. --pass
replaces it with the named passes, run once each, in the order given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: crn or report (overrides config)")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "pipeline configuration file")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model to compile when the file holds several")
	cmd.Flags().StringSliceVarP(&opts.Passes, "pass", "p", nil, "run only these passes, in order")
	cmd.Flags().BoolVar(&opts.NoPasses, "no-passes", false, "skip the pipeline")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	start := time.Now()
	errOut := cmd.ErrOrStderr()

	cfg, err := compileConfig(opts)
	if err != nil {
		failure(errOut, "%v", err)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if opts.Verbose == 0 && (cfg.Logging.Verbosity > 0 || cfg.Logging.File != "") {
		configureLogging(cfg.Logging.Verbosity, cfg.Logging.File)
	}

	net, _, err := loadModel(path, opts.Model, errOut)
	if err != nil {
		failure(errOut, "Compilation failed after %s", formatDuration(time.Since(start)))
		return err
	}

	if !opts.NoPasses {
		pipeline, err := cfg.BuildPipeline()
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid pipeline", err)
		}
		results, err := pipeline.Run(net)
		for _, r := range results {
			log.Infof("%s: %d iteration(s), changed=%t", r.PassID, r.Iterations, r.Changed)
		}
		if err != nil {
			failure(errOut, "%v", err)
			return WrapExitError(ExitFailure, "pipeline failed", err)
		}
	}

	var buf bytes.Buffer
	if err := writeNetwork(&buf, net, cfg.Output.Format); err != nil {
		return WrapExitError(ExitFailure, "failed to write model", err)
	}

	if opts.Output == "" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return err
		}
	} else if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	success(errOut, "Compiled %s in %s", path, formatDuration(time.Since(start)))
	return nil
}

// compileConfig merges the config file with command-line overrides.
func compileConfig(opts *CompileOptions) (*config.Config, error) {
	cfg := config.Defaults()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config, os.Getenv)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(opts.Passes) > 0 {
		cfg.Steps = cfg.Steps[:0]
		for _, id := range opts.Passes {
			cfg.Steps = append(cfg.Steps, config.StepConfig{Pass: id})
		}
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeNetwork(w io.Writer, net *ir.Network, format string) error {
	switch format {
	case config.FormatCRN:
		return backend.WriteCRN(w, net)
	case config.FormatReport:
		return backend.WriteReport(w, net)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// NewPassesCommand lists the registered passes.
func NewPassesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List the available abstraction passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range passes.All() {
				fmt.Fprintf(out, "%-32s %s\n", p.ID(), p.Description())
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Default pipeline:")
			for i, step := range passes.NewDefaultPipeline().Steps() {
				mode := ""
				if step.FixedPoint {
					mode = fmt.Sprintf(" (until fixed point, max %d)", step.MaxIterations)
				}
				fmt.Fprintf(out, "  %d. %s%s\n", i+1, step.Pass.ID(), mode)
			}
			return nil
		},
	}
}
