package metrics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("invalid ranking input")

// Kind says which input constraint failed.
type Kind int

const (
	KindShapeMismatch Kind = iota + 1
	KindEmpty
	KindNonPositiveK
	KindKTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindShapeMismatch:
		return "shape mismatch"
	case KindEmpty:
		return "empty input"
	case KindNonPositiveK:
		return "non-positive K"
	case KindKTooLarge:
		return "K too large"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ValidationError describes a violated constraint on labels, scores or K.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validate checks that yTrue and yScore have equal, non-zero length and that
// 1 <= k <= len(yTrue).
func Validate(yTrue, yScore []float64, k int) error {
	switch {
	case len(yTrue) != len(yScore):
		return &ValidationError{KindShapeMismatch, fmt.Sprintf(
			"the dimensions of the source arrays must match: len(y_true) = %d, len(y_score) = %d",
			len(yTrue), len(yScore))}
	case len(yTrue) == 0:
		return &ValidationError{KindEmpty, "the length of the source arrays must be greater than 0"}
	case k <= 0:
		return &ValidationError{KindNonPositiveK, fmt.Sprintf("K must be greater than 0, got K = %d", k)}
	case k > len(yTrue):
		return &ValidationError{KindKTooLarge, fmt.Sprintf(
			"K cannot be greater than the length of the source arrays: length = %d, K = %d",
			len(yTrue), k)}
	}
	return nil
}

// RankTruncate orders yTrue by descending yScore and keeps the first k labels.
// Among equal scores the later input position ranks first.
func RankTruncate(yTrue, yScore []float64, k int) ([]float64, error) {
	if err := Validate(yTrue, yScore, k); err != nil {
		return nil, err
	}
	return rankTruncate(yTrue, yScore, k), nil
}

func rankTruncate(yTrue, yScore []float64, k int) []float64 {
	n := len(yScore)
	sorted := make([]float64, n)
	copy(sorted, yScore)
	idx := make([]int, n)
	floats.ArgsortStable(sorted, idx)

	ranked := make([]float64, k)
	for i := 0; i < k; i++ {
		ranked[i] = yTrue[idx[n-1-i]]
	}
	return ranked
}
