// Package predictor turns patient records into phenotype predictions using a
// loaded, read-only model.
package predictor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"scdaid/ml"
)

// PatientInput is one inference request.
type PatientInput struct {
	Age                   float64
	Weight                float64
	EGFR                  float64
	Sex                   string
	CYP2D6Inhibitor       string
	PriorCodeineResponse  string
	PriorTramadolResponse string
}

// Row lays the input out in the columns the pipeline was trained on.
func (in PatientInput) Row() ml.Row {
	return ml.NewRow().
		SetNumber(ml.ColumnAge, in.Age).
		SetNumber(ml.ColumnWeight, in.Weight).
		SetNumber(ml.ColumnEGFR, in.EGFR).
		SetCategory(ml.ColumnSex, in.Sex).
		SetCategory(ml.ColumnCYP2D6Inhibitor, in.CYP2D6Inhibitor).
		SetCategory(ml.ColumnPriorCodeineResponse, in.PriorCodeineResponse).
		SetCategory(ml.ColumnPriorTramadolResponse, in.PriorTramadolResponse)
}

type Prediction struct {
	Predicted     string             `json:"predicted"`
	Confidence    Confidence         `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	Shape         ml.ArtifactShape   `json:"-"`
}

// Predictor wraps a model handle that is never mutated after construction, so
// one Predictor can serve any number of concurrent requests.
type Predictor struct {
	model      ml.Model
	thresholds Thresholds
}

func New(model ml.Model, thresholds Thresholds) (*Predictor, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{model: model, thresholds: thresholds}, nil
}

func (p *Predictor) Thresholds() Thresholds {
	return p.thresholds
}

// Predict returns ml.ErrClassesNotFound (wrapped) when the artifact exposes no
// class list in either recognized shape.
func (p *Predictor) Predict(in PatientInput) (*Prediction, error) {
	probs, err := p.model.PredictProba(in.Row())
	if err != nil {
		return nil, fmt.Errorf("predict proba: %w", err)
	}
	classes, shape, err := p.model.Classes()
	if err != nil {
		return nil, err
	}
	if len(classes) != len(probs) {
		return nil, fmt.Errorf("%w: %d classes for %d probabilities", ml.ErrClassesNotFound, len(classes), len(probs))
	}

	best := floats.MaxIdx(probs)
	mapping := make(map[string]float64, len(classes))
	for i, class := range classes {
		mapping[class] = probs[i]
	}
	return &Prediction{
		Predicted:     classes[best],
		Confidence:    p.thresholds.Bucket(probs[best]),
		Probabilities: mapping,
		Shape:         shape,
	}, nil
}
