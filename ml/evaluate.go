package ml

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

type ClassReport struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	Support   int     `json:"support"`
}

type Report struct {
	Samples  int                    `json:"samples"`
	Accuracy float64                `json:"accuracy"`
	LogLoss  float64                `json:"log_loss"`
	Classes  map[string]ClassReport `json:"classes"`
}

// Evaluate scores a model against labeled rows.
func Evaluate(model Model, rows []Row, labels []string) (Report, error) {
	if len(rows) == 0 {
		return Report{}, errors.New("rows is empty")
	}
	if len(rows) != len(labels) {
		return Report{}, errors.New("rows and labels size mismatch")
	}
	classes, _, err := model.Classes()
	if err != nil {
		return Report{}, err
	}
	index := make(map[string]int, len(classes))
	for k, class := range classes {
		index[class] = k
	}

	predicted := make(map[string]int, len(classes))
	actual := make(map[string]int, len(classes))
	truePositive := make(map[string]int, len(classes))
	var correct int
	var logLoss float64

	for i, row := range rows {
		probs, err := model.PredictProba(row)
		if err != nil {
			return Report{}, err
		}
		label := classes[floats.MaxIdx(probs)]
		predicted[label]++
		actual[labels[i]]++
		if label == labels[i] {
			correct++
			truePositive[label]++
		}
		p := 1e-15
		if k, ok := index[labels[i]]; ok {
			p = math.Max(probs[k], 1e-15)
		}
		logLoss -= math.Log(p)
	}

	report := Report{
		Samples:  len(rows),
		Accuracy: float64(correct) / float64(len(rows)),
		LogLoss:  logLoss / float64(len(rows)),
		Classes:  make(map[string]ClassReport, len(classes)),
	}
	for _, class := range classes {
		cr := ClassReport{Support: actual[class]}
		if predicted[class] > 0 {
			cr.Precision = float64(truePositive[class]) / float64(predicted[class])
		}
		if actual[class] > 0 {
			cr.Recall = float64(truePositive[class]) / float64(actual[class])
		}
		report.Classes[class] = cr
	}
	return report, nil
}
