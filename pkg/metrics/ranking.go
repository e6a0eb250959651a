package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Func computes a ranking metric over the top k items by score.
type Func func(yTrue, yScore []float64, k int) (float64, error)

// Registry maps metric names to their functions.
var Registry = map[string]Func{
	"precision": PrecisionAtK,
	"recall":    RecallAtK,
	"ap":        AveragePrecisionAtK,
	"dcg":       DCGAtK,
	"ndcg":      NDCGAtK,
}

// Names returns the registered metric names, sorted.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for n := range Registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named metric.
func Lookup(name string) (Func, error) {
	f, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q, want one of %v", name, Names())
	}
	return f, nil
}

// PrecisionAtK is the fraction of the top k items that are relevant.
func PrecisionAtK(yTrue, yScore []float64, k int) (float64, error) {
	r, err := RankTruncate(yTrue, yScore, k)
	if err != nil {
		return 0, err
	}
	return precision(r), nil
}

// RecallAtK is the fraction of all relevant items found in the top k. It is
// 0 when there are no relevant items.
func RecallAtK(yTrue, yScore []float64, k int) (float64, error) {
	r, err := RankTruncate(yTrue, yScore, k)
	if err != nil {
		return 0, err
	}
	return recall(r, yTrue), nil
}

// AveragePrecisionAtK averages the prefix precisions at relevant positions
// over all k positions.
func AveragePrecisionAtK(yTrue, yScore []float64, k int) (float64, error) {
	r, err := RankTruncate(yTrue, yScore, k)
	if err != nil {
		return 0, err
	}
	return averagePrecision(r), nil
}

// DCGAtK is the discounted cumulative gain sum((2^rel - 1) / log2(i+2)).
func DCGAtK(yTrue, yScore []float64, k int) (float64, error) {
	r, err := RankTruncate(yTrue, yScore, k)
	if err != nil {
		return 0, err
	}
	return dcg(r), nil
}

// NDCGAtK divides DCGAtK by the DCG of a ranking where every item is relevant.
func NDCGAtK(yTrue, yScore []float64, k int) (float64, error) {
	r, err := RankTruncate(yTrue, yScore, k)
	if err != nil {
		return 0, err
	}
	return ndcg(r), nil
}

func precision(r []float64) float64 {
	return floats.Sum(r) / float64(len(r))
}

func recall(r, yTrue []float64) float64 {
	total := floats.Sum(yTrue)
	if total == 0 {
		return 0
	}
	return floats.Sum(r) / total
}

func averagePrecision(r []float64) float64 {
	var hits, sum float64
	for i, rel := range r {
		hits += rel
		sum += rel * hits / float64(i+1)
	}
	return sum / float64(len(r))
}

func dcg(r []float64) float64 {
	var s float64
	for i, rel := range r {
		s += (math.Pow(2, rel) - 1) / math.Log2(float64(i+2))
	}
	return s
}

// idealDCG is the DCG of k relevant items.
func idealDCG(k int) float64 {
	var s float64
	for i := 0; i < k; i++ {
		s += 1 / math.Log2(float64(i+2))
	}
	return s
}

func ndcg(r []float64) float64 {
	return dcg(r) / idealDCG(len(r))
}

// Report holds every metric at one K.
type Report struct {
	K                int     `json:"k"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	AveragePrecision float64 `json:"average_precision"`
	DCG              float64 `json:"dcg"`
	NDCG             float64 `json:"ndcg"`
}

// Evaluate computes all metrics at k after a single validation.
func Evaluate(yTrue, yScore []float64, k int) (Report, error) {
	r, err := RankTruncate(yTrue, yScore, k)
	if err != nil {
		return Report{}, err
	}
	return report(r, yTrue), nil
}

// Curve evaluates every K from 1 to len(yTrue).
func Curve(yTrue, yScore []float64) ([]Report, error) {
	if err := Validate(yTrue, yScore, 1); err != nil {
		return nil, err
	}
	full := rankTruncate(yTrue, yScore, len(yTrue))
	out := make([]Report, len(full))
	for k := 1; k <= len(full); k++ {
		out[k-1] = report(full[:k], yTrue)
	}
	return out, nil
}

func report(r, yTrue []float64) Report {
	return Report{
		K:                len(r),
		Precision:        precision(r),
		Recall:           recall(r, yTrue),
		AveragePrecision: averagePrecision(r),
		DCG:              dcg(r),
		NDCG:             ndcg(r),
	}
}
