// Package passes holds the abstraction passes that rewrite a reaction
// network and the pipeline that sequences them.
package passes

import (
	"github.com/tliron/commonlog"

	"crnc/internal/errors"
	"crnc/internal/ir"
)

var log = commonlog.GetLogger("crnc.passes")

// Pass is a single IR-to-IR rewrite identified by a stable id.
type Pass interface {
	ID() string
	Description() string
	Apply(net *ir.Network) error
}

// DefaultMaxIterations bounds fixed-point steps that do not set their own limit.
const DefaultMaxIterations = 10

// Step is one entry of a pipeline.
type Step struct {
	Pass Pass

	// FixedPoint re-applies the pass until it leaves the model unchanged.
	FixedPoint    bool
	MaxIterations int
}

type StepOption func(*Step)

// UntilFixedPoint re-applies the pass until it makes no change, at most
// max times.
func UntilFixedPoint(max int) StepOption {
	return func(s *Step) {
		s.FixedPoint = true
		s.MaxIterations = max
	}
}

// StepResult records what one step did.
type StepResult struct {
	PassID     string
	Iterations int
	Changed    bool
}

// Pipeline runs passes in order over one network.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// NewDefaultPipeline creates the standard abstraction sequence.
func NewDefaultPipeline() *Pipeline {
	p := NewPipeline()

	p.AddPass(&ConstantFolding{})
	p.AddPass(&ModifierConstantPropagation{}, UntilFixedPoint(DefaultMaxIterations))
	p.AddPass(&DeadEntityElimination{})
	p.AddPass(&ConstantFolding{})

	return p
}

// AddPass appends a pass to the pipeline.
func (p *Pipeline) AddPass(pass Pass, opts ...StepOption) {
	step := Step{Pass: pass}
	for _, opt := range opts {
		opt(&step)
	}
	p.steps = append(p.steps, step)
}

// Steps returns the configured steps in order.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Run applies every step in order. The first failing pass halts the
// pipeline; the network keeps the mutations made up to that point.
func (p *Pipeline) Run(net *ir.Network) ([]StepResult, error) {
	log.Infof("running %d passes on model %s", len(p.steps), net.ID)

	results := make([]StepResult, 0, len(p.steps))
	for _, step := range p.steps {
		result, err := runStep(step, net)
		results = append(results, result)
		if err != nil {
			log.Errorf("pass %s failed: %s", step.Pass.ID(), err.Error())
			return results, err
		}
		if result.Changed {
			log.Infof("%s: changed model in %d iteration(s)", result.PassID, result.Iterations)
		} else {
			log.Debugf("%s: no changes", result.PassID)
		}
	}
	return results, nil
}

func runStep(step Step, net *ir.Network) (StepResult, error) {
	id := step.Pass.ID()
	result := StepResult{PassID: id}

	limit := 1
	if step.FixedPoint {
		limit = step.MaxIterations
		if limit <= 0 {
			limit = DefaultMaxIterations
		}
	}

	for result.Iterations < limit {
		net.ResetChangeFlag()
		result.Iterations++
		if err := step.Pass.Apply(net); err != nil {
			return result, errors.Wrap(errors.KindPassFailed, id, err, "%s", id)
		}
		if !net.IsChanged() {
			return result, nil
		}
		result.Changed = true
	}

	if step.FixedPoint {
		return result, errors.New(errors.KindFixedPointNotReached, id,
			"%s still changing the model after %d iterations", id, limit)
	}
	return result, nil
}
