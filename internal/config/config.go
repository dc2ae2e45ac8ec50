package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"crnc/internal/errors"
	"crnc/internal/passes"
)

// Output formats understood by the compile command.
const (
	FormatCRN    = "crn"
	FormatReport = "report"
)

// Config controls which passes run and how results are written.
type Config struct {
	Steps   []StepConfig  `yaml:"pipeline"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// StepConfig is one pipeline entry.
type StepConfig struct {
	Pass          string `yaml:"pass"`
	FixedPoint    bool   `yaml:"fixed_point"`
	MaxIterations int    `yaml:"max_iterations"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

type LoggingConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

// Defaults returns the configuration used when no file is given. Its
// pipeline matches passes.NewDefaultPipeline.
func Defaults() *Config {
	return &Config{
		Steps: []StepConfig{
			{Pass: passes.ConstantFoldingID},
			{Pass: passes.ModifierConstantPropagationID, FixedPoint: true, MaxIterations: passes.DefaultMaxIterations},
			{Pass: passes.DeadEntityEliminationID},
			{Pass: passes.ConstantFoldingID},
		},
		Output: OutputConfig{Format: FormatCRN},
	}
}

// Load reads a YAML configuration file. ${VAR} and ${VAR:-default} are
// replaced from getenv before parsing.
func Load(path string, getenv func(string) string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.KindConfig, path, err, "cannot read config")
	}
	cfg, err := Parse(interpolateEnv(data, getenv))
	if err != nil {
		return nil, errors.Wrap(errors.KindConfig, path, err, "invalid config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []string

	if len(c.Steps) == 0 {
		errs = append(errs, "pipeline has no steps")
	}
	for i, step := range c.Steps {
		if _, err := passes.Lookup(step.Pass); err != nil {
			errs = append(errs, fmt.Sprintf("step %d: unknown pass %q (known: %s)", i+1, step.Pass, strings.Join(passes.IDs(), ", ")))
		}
		if step.MaxIterations < 0 {
			errs = append(errs, fmt.Sprintf("step %d: max_iterations must not be negative", i+1))
		}
		if step.MaxIterations > 0 && !step.FixedPoint {
			errs = append(errs, fmt.Sprintf("step %d: max_iterations needs fixed_point", i+1))
		}
	}

	switch c.Output.Format {
	case FormatCRN, FormatReport:
	default:
		errs = append(errs, fmt.Sprintf("unknown output format %q", c.Output.Format))
	}

	if len(errs) > 0 {
		return errors.New(errors.KindConfig, "", "%s", strings.Join(errs, "; "))
	}
	return nil
}

// BuildPipeline instantiates the configured passes in order.
func (c *Config) BuildPipeline() (*passes.Pipeline, error) {
	p := passes.NewPipeline()
	for _, step := range c.Steps {
		pass, err := passes.Lookup(step.Pass)
		if err != nil {
			return nil, err
		}
		var opts []passes.StepOption
		if step.FixedPoint {
			opts = append(opts, passes.UntilFixedPoint(step.MaxIterations))
		}
		p.AddPass(pass, opts...)
	}
	return p, nil
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		value := getenv(string(parts[1]))
		if value == "" && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}
