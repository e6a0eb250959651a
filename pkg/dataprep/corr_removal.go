package dataprep

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/rs/zerolog"

	"github.com/dmerty/ds-help-utils/pkg/core"
	"github.com/dmerty/ds-help-utils/pkg/pipeline"
	"github.com/dmerty/ds-help-utils/pkg/stats"
	"github.com/dmerty/ds-help-utils/pkg/validation"
)

// DefaultThreshold is the absolute correlation above which a feature is redundant.
const DefaultThreshold = 0.9

var (
	ErrNotFitted = pipeline.ErrNotFitted
	ErrNilFrame  = errors.New("nil frame")
)

// CorrConfig configures HighCorrRemoval.
type CorrConfig struct {
	// Threshold is compared strictly: a pair is redundant when |corr| > Threshold.
	Threshold float64      `validate:"gte=0,lte=1"`
	Method    stats.Method `validate:"oneof=pearson kendall spearman custom"`
	// Similarity is used only with stats.MethodCustom.
	Similarity stats.Similarity
}

// DefaultCorrConfig returns Pearson correlation with DefaultThreshold.
func DefaultCorrConfig() CorrConfig {
	return CorrConfig{Threshold: DefaultThreshold, Method: stats.MethodPearson}
}

// Selection is the fitted state of HighCorrRemoval. Features keeps the
// original column order.
type Selection struct {
	Features   []string
	Correlated []string
	Constant   []string
}

// Transform restricts x to the selected features, in selection order.
func (s Selection) Transform(x *core.Frame) (*core.Frame, error) {
	if x == nil {
		return nil, ErrNilFrame
	}
	out, err := x.Select(s.Features...)
	if err != nil {
		return nil, fmt.Errorf("select features: %w", err)
	}
	return out, nil
}

func (s Selection) clone() Selection {
	return Selection{
		Features:   slices.Clone(s.Features),
		Correlated: slices.Clone(s.Correlated),
		Constant:   slices.Clone(s.Constant),
	}
}

// FitSelection computes which columns of x survive cfg.
//
// Pairs are visited over the strict upper triangle of the correlation
// matrix in row-major order. For a pair (i, j), i < j, whose absolute
// correlation exceeds the threshold, j is dropped unless i was dropped
// already. Columns with an undefined self-correlation are dropped as well.
func FitSelection(x *core.Frame, cfg CorrConfig) (Selection, error) {
	if x == nil {
		return Selection{}, ErrNilFrame
	}
	if err := validation.Struct(cfg); err != nil {
		return Selection{}, err
	}

	_, n := x.Dims()
	if n == 0 {
		return Selection{Features: []string{}}, nil
	}
	corr, err := stats.CorrMatrix(x, cfg.Method, cfg.Similarity)
	if err != nil {
		return Selection{}, fmt.Errorf("correlation matrix: %w", err)
	}

	removed := make([]bool, n)
	var sel Selection
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if removed[i] || removed[j] {
				continue
			}
			if math.Abs(corr.At(i, j)) > cfg.Threshold {
				removed[j] = true
				sel.Correlated = append(sel.Correlated, x.Name(j))
			}
		}
	}
	for j := 0; j < n; j++ {
		if !removed[j] && math.IsNaN(corr.At(j, j)) {
			removed[j] = true
			sel.Constant = append(sel.Constant, x.Name(j))
		}
	}

	sel.Features = make([]string, 0, n)
	for j := 0; j < n; j++ {
		if !removed[j] {
			sel.Features = append(sel.Features, x.Name(j))
		}
	}
	return sel, nil
}

// HighCorrRemoval drops features that are highly correlated with an earlier
// feature, and features whose correlation is undefined.
//
// It is Unfitted until Fit succeeds. A later Fit replaces the selection; a
// failed Fit leaves the previous one in place. It is not safe for concurrent
// use.
type HighCorrRemoval struct {
	cfg CorrConfig
	log zerolog.Logger
	sel *Selection
}

var _ pipeline.Transformer = (*HighCorrRemoval)(nil)

type Option func(*HighCorrRemoval)

// WithLogger logs removed features at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(h *HighCorrRemoval) { h.log = l }
}

func NewHighCorrRemoval(cfg CorrConfig, opts ...Option) *HighCorrRemoval {
	h := &HighCorrRemoval{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HighCorrRemoval) Fit(X *core.Frame) error {
	sel, err := FitSelection(X, h.cfg)
	if err != nil {
		return err
	}
	h.sel = &sel

	for _, name := range sel.Correlated {
		h.log.Debug().Str("feature", name).Str("reason", "correlated").Msg("feature removed")
	}
	for _, name := range sel.Constant {
		h.log.Debug().Str("feature", name).Str("reason", "constant").Msg("feature removed")
	}
	h.log.Debug().
		Str("method", string(h.cfg.Method)).
		Float64("threshold", h.cfg.Threshold).
		Int("selected", len(sel.Features)).
		Int("removed", len(sel.Correlated)+len(sel.Constant)).
		Msg("correlation removal fitted")
	return nil
}

func (h *HighCorrRemoval) Transform(X *core.Frame) (*core.Frame, error) {
	if h.sel == nil {
		return nil, ErrNotFitted
	}
	return h.sel.Transform(X)
}

func (h *HighCorrRemoval) FitTransform(X *core.Frame) (*core.Frame, error) {
	if err := h.Fit(X); err != nil {
		return nil, err
	}
	return h.Transform(X)
}

// Fitted reports whether Fit has succeeded at least once.
func (h *HighCorrRemoval) Fitted() bool { return h.sel != nil }

// Selected returns the selected feature names, or nil when unfitted.
func (h *HighCorrRemoval) Selected() []string {
	if h.sel == nil {
		return nil
	}
	return slices.Clone(h.sel.Features)
}

// Selection returns a copy of the fitted state.
func (h *HighCorrRemoval) Selection() (Selection, bool) {
	if h.sel == nil {
		return Selection{}, false
	}
	return h.sel.clone(), true
}
