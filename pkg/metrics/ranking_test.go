package metrics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	exampleTrue  = []float64{0, 0, 1, 1}
	exampleScore = []float64{0.1, 0.4, 0.35, 0.8}
)

func TestRankTruncateExample(t *testing.T) {
	r, err := RankTruncate(exampleTrue, exampleScore, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, r)
}

func TestRankTruncateTies(t *testing.T) {
	// equal scores: the later position ranks first
	r, err := RankTruncate([]float64{1, 0}, []float64{0.5, 0.5}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, r)
}

func TestMetricsExample(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		want float64
	}{
		{"precision", PrecisionAtK, 2.0 / 3.0},
		{"recall", RecallAtK, 1.0},
		{"average precision", AveragePrecisionAtK, (1 + 0 + 2.0/3.0) / 3},
		{"dcg", DCGAtK, 1.5},
		{"ndcg", NDCGAtK, 1.5 / (1 + 1/math.Log2(3) + 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(exampleTrue, exampleScore, 3)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	got, err := AveragePrecisionAtK(exampleTrue, exampleScore, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.556, got, 1e-3)
	got, err = NDCGAtK(exampleTrue, exampleScore, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, got, 1e-2)
}

func TestRecallWithoutRelevantItems(t *testing.T) {
	got, err := RecallAtK([]float64{0, 0, 0}, []float64{0.3, 0.2, 0.1}, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsNaN(got))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		yTrue  []float64
		yScore []float64
		k      int
		kind   Kind
		msg    string
	}{
		{"shape", []float64{1, 0}, []float64{1}, 1, KindShapeMismatch, "len(y_true) = 2, len(y_score) = 1"},
		{"empty", nil, nil, 1, KindEmpty, "greater than 0"},
		{"zero k", []float64{1}, []float64{1}, 0, KindNonPositiveK, "K = 0"},
		{"negative k", []float64{1}, []float64{1}, -2, KindNonPositiveK, "K = -2"},
		{"k too large", []float64{1, 0}, []float64{1, 2}, 3, KindKTooLarge, "length = 2, K = 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.yTrue, tt.yScore, tt.k)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Contains(t, verr.Error(), tt.msg)

			for name, fn := range Registry {
				_, err := fn(tt.yTrue, tt.yScore, tt.k)
				assert.ErrorIs(t, err, ErrValidation, name)
			}
		})
	}

	assert.NoError(t, Validate([]float64{1}, []float64{1}, 1))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "K too large", KindKTooLarge.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestRandomizedProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(20)
		yTrue := make([]float64, n)
		yScore := make([]float64, n)
		for i := 0; i < n; i++ {
			yTrue[i] = float64(rng.Intn(2))
			yScore[i] = rng.Float64()
		}
		k := 1 + rng.Intn(n)

		r, err := RankTruncate(yTrue, yScore, k)
		require.NoError(t, err)
		require.Len(t, r, k)
		assert.LessOrEqual(t, sum(r), sum(yTrue))
		assert.GreaterOrEqual(t, float64(k)-sum(r), 0.0)
		assert.LessOrEqual(t, float64(k)-sum(r), float64(n)-sum(yTrue))

		nd, err := NDCGAtK(yTrue, yScore, k)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, nd, 0.0)
		assert.LessOrEqual(t, nd, 1.0+1e-12)

		rec, err := RecallAtK(yTrue, yScore, k)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(rec))
	}
}

func TestEvaluateMatchesSingleMetrics(t *testing.T) {
	rep, err := Evaluate(exampleTrue, exampleScore, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.K)

	for name, want := range map[string]float64{
		"precision": rep.Precision,
		"recall":    rep.Recall,
		"ap":        rep.AveragePrecision,
		"dcg":       rep.DCG,
		"ndcg":      rep.NDCG,
	} {
		fn, err := Lookup(name)
		require.NoError(t, err)
		got, err := fn(exampleTrue, exampleScore, 3)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err = Evaluate(exampleTrue, exampleScore, 5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCurve(t *testing.T) {
	curve, err := Curve(exampleTrue, exampleScore)
	require.NoError(t, err)
	require.Len(t, curve, 4)
	for i, rep := range curve {
		want, err := Evaluate(exampleTrue, exampleScore, i+1)
		require.NoError(t, err)
		assert.Equal(t, want, rep)
	}
	assert.Equal(t, 1.0, curve[3].Recall)

	_, err = Curve(nil, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"ap", "dcg", "ndcg", "precision", "recall"}, Names())
	_, err := Lookup("mrr")
	assert.Error(t, err)
}

func sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}
