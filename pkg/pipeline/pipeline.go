package pipeline

import (
	"errors"
	"fmt"

	"github.com/dmerty/ds-help-utils/pkg/core"
)

// ErrNotFitted is returned by Transform when Fit has not been called yet.
var ErrNotFitted = errors.New("transformer is not fitted")

// Transformer interface for fit/transform pattern.
type Transformer interface {
	Fit(X *core.Frame) error
	Transform(X *core.Frame) (*core.Frame, error)
}

// Pipeline chains multiple transformers.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

// Fit fits every step on the output of the step before it.
func (p *Pipeline) Fit(X *core.Frame) error {
	for i, step := range p.steps {
		if err := step.Fit(X); err != nil {
			return fmt.Errorf("pipeline step %d: fit: %w", i, err)
		}
		var err error
		if X, err = step.Transform(X); err != nil {
			return fmt.Errorf("pipeline step %d: transform: %w", i, err)
		}
	}
	return nil
}

func (p *Pipeline) Transform(X *core.Frame) (*core.Frame, error) {
	for i, step := range p.steps {
		var err error
		if X, err = step.Transform(X); err != nil {
			return nil, fmt.Errorf("pipeline step %d: transform: %w", i, err)
		}
	}
	return X, nil
}

func (p *Pipeline) FitTransform(X *core.Frame) (*core.Frame, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }
