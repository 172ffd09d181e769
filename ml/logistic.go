package ml

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

const (
	ClassWeightNone     = ""
	ClassWeightBalanced = "balanced"
)

// LogisticRegression is a multinomial (softmax) logistic regression with an
// L2 penalty on the coefficients. The intercept is not penalized.
type LogisticRegression struct {
	C           float64 `json:"c"`
	MaxIter     int     `json:"max_iter"`
	ClassWeight string  `json:"class_weight,omitempty"`

	Classes   []string    `json:"classes,omitempty"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`

	Iterations int    `json:"iterations,omitempty"`
	Status     string `json:"status,omitempty"`
}

func NewLogisticRegression(c float64, maxIter int, classWeight string) *LogisticRegression {
	if c <= 0 {
		c = 1.0
	}
	if maxIter <= 0 {
		maxIter = 100
	}
	return &LogisticRegression{C: c, MaxIter: maxIter, ClassWeight: classWeight}
}

func (lr *LogisticRegression) Fit(features [][]float64, labels []string) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}
	dim := len(features[0])
	for i, row := range features {
		if len(row) != dim {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), dim)
		}
	}

	classes := uniqueSorted(labels)
	if len(classes) < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", len(classes))
	}
	index := make(map[string]int, len(classes))
	for k, class := range classes {
		index[class] = k
	}
	targets := make([]int, len(labels))
	for i, label := range labels {
		targets[i] = index[label]
	}

	weights, err := sampleWeights(targets, len(classes), lr.ClassWeight)
	if err != nil {
		return err
	}

	obj := &softmaxObjective{
		x:       features,
		y:       targets,
		w:       weights,
		sumW:    floats.Sum(weights),
		classes: len(classes),
		dim:     dim,
		alpha:   1 / lr.C,
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return obj.eval(x, nil) },
		Grad: func(grad, x []float64) { obj.eval(x, grad) },
	}
	settings := &optimize.Settings{
		MajorIterations:   lr.MaxIter,
		GradientThreshold: 1e-6,
	}
	result, err := optimize.Minimize(problem, make([]float64, obj.size()), settings, &optimize.LBFGS{})
	if result == nil {
		return fmt.Errorf("optimize: %w", err)
	}
	// A line search that cannot make progress still leaves the best location
	// found so far, which is usable as long as it is finite.
	if err != nil && !allFinite(result.X) {
		return fmt.Errorf("optimize: %w", err)
	}

	lr.Classes = classes
	lr.Coef = make([][]float64, len(classes))
	lr.Intercept = make([]float64, len(classes))
	for k := range classes {
		lr.Coef[k] = append([]float64(nil), result.X[k*(dim+1):k*(dim+1)+dim]...)
		lr.Intercept[k] = result.X[k*(dim+1)+dim]
	}
	lr.Iterations = result.MajorIterations
	lr.Status = result.Status.String()
	return nil
}

// PredictProba returns one probability per class, in coefficient row order.
func (lr *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	if len(lr.Coef) == 0 {
		return nil, ErrNotFitted
	}
	if len(lr.Coef[0]) != len(features) {
		return nil, fmt.Errorf("expected %d features, got %d", len(lr.Coef[0]), len(features))
	}
	scores := make([]float64, len(lr.Coef))
	for k, coef := range lr.Coef {
		scores[k] = floats.Dot(coef, features) + lr.Intercept[k]
	}
	return softmax(scores), nil
}

// Width is the number of input features the fitted coefficients expect.
func (lr *LogisticRegression) Width() int {
	if len(lr.Coef) == 0 {
		return 0
	}
	return len(lr.Coef[0])
}

type softmaxObjective struct {
	x       [][]float64
	y       []int
	w       []float64
	sumW    float64
	classes int
	dim     int
	alpha   float64
}

func (o *softmaxObjective) size() int {
	return o.classes * (o.dim + 1)
}

// eval returns the weighted mean cross-entropy plus the L2 term. When grad is
// non-nil it is overwritten with the gradient.
func (o *softmaxObjective) eval(params, grad []float64) float64 {
	stride := o.dim + 1
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
	}

	scores := make([]float64, o.classes)
	loss := 0.0
	for i, row := range o.x {
		for k := 0; k < o.classes; k++ {
			base := k * stride
			scores[k] = floats.Dot(params[base:base+o.dim], row) + params[base+o.dim]
		}
		lse := logSumExp(scores)
		loss += o.w[i] * (lse - scores[o.y[i]])
		if grad == nil {
			continue
		}
		for k := 0; k < o.classes; k++ {
			residual := math.Exp(scores[k] - lse)
			if k == o.y[i] {
				residual -= 1
			}
			residual *= o.w[i]
			base := k * stride
			floats.AddScaled(grad[base:base+o.dim], residual, row)
			grad[base+o.dim] += residual
		}
	}

	penalty := 0.0
	for k := 0; k < o.classes; k++ {
		base := k * stride
		coef := params[base : base+o.dim]
		penalty += floats.Dot(coef, coef)
		if grad != nil {
			floats.AddScaled(grad[base:base+o.dim], o.alpha, coef)
		}
	}
	if grad != nil {
		floats.Scale(1/o.sumW, grad)
	}
	return (loss + 0.5*o.alpha*penalty) / o.sumW
}

func sampleWeights(targets []int, classes int, mode string) ([]float64, error) {
	weights := make([]float64, len(targets))
	switch mode {
	case ClassWeightNone:
		for i := range weights {
			weights[i] = 1
		}
	case ClassWeightBalanced:
		counts := make([]float64, classes)
		for _, t := range targets {
			counts[t]++
		}
		n := float64(len(targets))
		for i, t := range targets {
			weights[i] = n / (float64(classes) * counts[t])
		}
	default:
		return nil, fmt.Errorf("unsupported class weight %q", mode)
	}
	return weights, nil
}

func softmax(scores []float64) []float64 {
	lse := logSumExp(scores)
	probs := make([]float64, len(scores))
	for k, s := range scores {
		probs[k] = math.Exp(s - lse)
	}
	return probs
}

func logSumExp(values []float64) float64 {
	max := floats.Max(values)
	sum := 0.0
	for _, v := range values {
		sum += math.Exp(v - max)
	}
	return max + math.Log(sum)
}

func uniqueSorted(labels []string) []string {
	seen := make(map[string]struct{})
	for _, label := range labels {
		seen[label] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
