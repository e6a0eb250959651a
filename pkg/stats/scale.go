package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dmerty/ds-help-utils/pkg/core"
	"github.com/dmerty/ds-help-utils/pkg/pipeline"
)

// StandardScaler standardizes each column to zero mean and unit variance.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

var _ pipeline.Transformer = (*StandardScaler)(nil)

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit learns the per-column mean and population std over the present (non-NaN)
// values. A constant column gets std 1.
func (s *StandardScaler) Fit(X *core.Frame) error {
	_, c := X.Dims()
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	for j := 0; j < c; j++ {
		col := present(X.Col(j))
		s.Mean[j] = Mean(col)
		s.Std[j] = Std(col)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.fit = true
	return nil
}

// Transform applies the fitted scaling. Missing cells stay NaN.
func (s *StandardScaler) Transform(X *core.Frame) (*core.Frame, error) {
	if !s.fit {
		return nil, pipeline.ErrNotFitted
	}
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler fitted on %d columns, got %d", core.ErrShape, len(s.Mean), c)
	}
	if r == 0 || c == 0 {
		return X, nil
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		v := X.At(i, j)
		if math.IsNaN(v) {
			return v
		}
		return (v - s.Mean[j]) / s.Std[j]
	}, out)
	return core.NewFrame(X.Names(), out)
}

func (s *StandardScaler) FitTransform(X *core.Frame) (*core.Frame, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
