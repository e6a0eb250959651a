package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/dmerty/ds-help-utils/pkg/core"
)

// Method selects how pairwise correlation is measured.
type Method string

const (
	MethodPearson  Method = "pearson"
	MethodKendall  Method = "kendall"
	MethodSpearman Method = "spearman"
	MethodCustom   Method = "custom"
)

var (
	ErrUnknownMethod = errors.New("unknown correlation method")
	ErrNoSimilarity  = errors.New("custom correlation method needs a similarity function")
	ErrNoColumns     = errors.New("frame has no columns")
)

// Similarity scores a pair of equally long columns.
type Similarity func(x, y []float64) float64

// ParseMethod maps a method name (case-insensitive) to a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodPearson, MethodKendall, MethodSpearman, MethodCustom:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Similarity returns the pairwise function for m. custom is only consulted
// for MethodCustom.
func (m Method) Similarity(custom Similarity) (Similarity, error) {
	switch m {
	case MethodPearson:
		return Pearson, nil
	case MethodKendall:
		return Kendall, nil
	case MethodSpearman:
		return Spearman, nil
	case MethodCustom:
		if custom == nil {
			return nil, ErrNoSimilarity
		}
		return custom, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, string(m))
	}
}

// Pearson computes the linear correlation coefficient. It is NaN when either
// column is constant or has fewer than two values.
func Pearson(x, y []float64) float64 {
	if Constant(x) || Constant(y) {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// Spearman computes the rank correlation coefficient with average ranks for ties.
func Spearman(x, y []float64) float64 {
	if Constant(x) || Constant(y) {
		return math.NaN()
	}
	return stat.Correlation(Rank(x), Rank(y), nil)
}

// Kendall computes Kendall's tau-b, which corrects for ties in either column.
func Kendall(x, y []float64) float64 {
	n := len(x)
	if Constant(x) || Constant(y) {
		return math.NaN()
	}

	var concordant, discordant, tiesX, tiesY float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx, dy := x[i]-x[j], y[i]-y[j]
			if dx == 0 {
				tiesX++
			}
			if dy == 0 {
				tiesY++
			}
			switch s := dx * dy; {
			case s > 0:
				concordant++
			case s < 0:
				discordant++
			}
		}
	}

	pairs := float64(n*(n-1)) / 2
	den := math.Sqrt((pairs - tiesX) * (pairs - tiesY))
	if den == 0 {
		return math.NaN()
	}
	return (concordant - discordant) / den
}

// CorrMatrix computes the symmetric column correlation matrix of x.
//
// Each pair uses only the rows where both values are present. For the
// built-in methods the diagonal is 1 for a well-defined column and NaN for a
// degenerate one (constant, or fewer than two observations), and every entry
// touching a degenerate column is NaN. For MethodCustom the diagonal is 1 and
// the result is symmetric whatever the function returns.
func CorrMatrix(x *core.Frame, method Method, custom Similarity) (*mat.SymDense, error) {
	sim, err := method.Similarity(custom)
	if err != nil {
		return nil, err
	}
	_, n := x.Dims()
	if n == 0 {
		return nil, ErrNoColumns
	}

	cols := make([][]float64, n)
	for j := 0; j < n; j++ {
		cols[j] = x.Col(j)
	}

	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a, b := complete(cols[i], cols[j])
			var c float64
			switch {
			case i == j && method == MethodCustom:
				c = 1
			case i == j:
				c = 1
				if Constant(a) {
					c = math.NaN()
				}
			case len(a) == 0:
				c = math.NaN()
			default:
				c = sim(a, b)
			}
			corr.SetSym(i, j, c)
		}
	}
	return corr, nil
}
