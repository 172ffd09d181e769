package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusteredData() ([][]float64, []string) {
	centers := map[string][2]float64{
		"a": {0, 0},
		"b": {4, 0},
		"c": {0, 4},
	}
	offsets := [][2]float64{{0.3, 0.1}, {-0.2, 0.4}, {0.1, -0.3}, {-0.4, -0.2}, {0.2, 0.2}}
	var features [][]float64
	var labels []string
	for _, label := range []string{"a", "b", "c"} {
		center := centers[label]
		for _, off := range offsets {
			features = append(features, []float64{center[0] + off[0], center[1] + off[1]})
			labels = append(labels, label)
		}
	}
	return features, labels
}

func TestLogisticRegressionSeparatesClusters(t *testing.T) {
	features, labels := clusteredData()
	lr := NewLogisticRegression(10, 500, ClassWeightNone)
	require.NoError(t, lr.Fit(features, labels))
	assert.Equal(t, []string{"a", "b", "c"}, lr.Classes)
	assert.Equal(t, 2, lr.Width())

	cases := []struct {
		point []float64
		want  int
	}{
		{[]float64{0, 0}, 0},
		{[]float64{4.2, 0.1}, 1},
		{[]float64{-0.1, 3.8}, 2},
	}
	for _, tc := range cases {
		probs, err := lr.PredictProba(tc.point)
		require.NoError(t, err)
		require.Len(t, probs, 3)

		sum := 0.0
		best := 0
		for k, p := range probs {
			sum += p
			if p > probs[best] {
				best = k
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.Equal(t, tc.want, best, "point %v probs %v", tc.point, probs)
	}
}

func TestLogisticRegressionBalancedWeights(t *testing.T) {
	weights, err := sampleWeights([]int{0, 0, 0, 1}, 2, ClassWeightBalanced)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4.0 / 6, 4.0 / 6, 4.0 / 6, 2}, weights, 1e-12)

	_, err = sampleWeights([]int{0, 1}, 2, "bogus")
	assert.Error(t, err)
}

func TestLogisticRegressionErrors(t *testing.T) {
	lr := NewLogisticRegression(1, 10, ClassWeightBalanced)

	_, err := lr.PredictProba([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.Error(t, lr.Fit(nil, nil))
	assert.Error(t, lr.Fit([][]float64{{1}, {2}}, []string{"a"}))
	assert.Error(t, lr.Fit([][]float64{{1}, {2}}, []string{"a", "a"}), "single class")
	assert.Error(t, lr.Fit([][]float64{{1}, {2, 3}}, []string{"a", "b"}), "ragged rows")

	features, labels := clusteredData()
	require.NoError(t, lr.Fit(features, labels))
	_, err = lr.PredictProba([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestSoftmaxIsStable(t *testing.T) {
	probs := softmax([]float64{1000, 1000, -1000})
	for _, p := range probs {
		assert.False(t, math.IsNaN(p))
	}
	assert.InDelta(t, 0.5, probs[0], 1e-12)
	assert.InDelta(t, 0.5, probs[1], 1e-12)
}
