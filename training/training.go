// Package training fits the phenotype pipeline on a synthetic cohort.
package training

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"scdaid/cohort"
	"scdaid/ml"
)

type Config struct {
	CohortSize int
	Seed       uint64
	TestRatio  float64
	C          float64
	MaxIter    int
	OutDir     string
}

func DefaultConfig() Config {
	return Config{
		CohortSize: 3000,
		Seed:       42,
		TestRatio:  0.2,
		C:          1.0,
		MaxIter:    600,
		OutDir:     ".",
	}
}

type Result struct {
	Pipeline   *ml.Pipeline
	Report     ml.Report
	TrainSize  int
	TestSize   int
	Artifact   string
	LabelCount map[string]int
}

// Fit generates the cohort, splits it, and fits a fresh pipeline. Nothing is
// written to disk.
func Fit(config Config, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.OutDir == "" {
		config.OutDir = "."
	}

	records, err := cohort.Generate(cohort.Config{Size: config.CohortSize, Seed: config.Seed})
	if err != nil {
		return nil, fmt.Errorf("generate cohort: %w", err)
	}
	rows, labels := cohort.Rows(records)
	counts := make(map[string]int)
	for _, label := range labels {
		counts[label]++
	}
	logger.Info("cohort generated",
		zap.Int("size", len(records)),
		zap.Uint64("seed", config.Seed),
		zap.Any("labels", counts),
	)

	trainX, trainY, testX, testY, err := ml.StratifiedSplit(rows, labels, config.TestRatio, config.Seed)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if len(trainX) == 0 || len(testX) == 0 {
		return nil, errors.New("split produced an empty partition")
	}

	pipeline := ml.NewPipeline(
		ml.NewColumnTransformer(ml.CategoricalColumns(), ml.NumericColumns()),
		ml.NewLogisticRegression(config.C, config.MaxIter, ml.ClassWeightBalanced),
	)
	if err := pipeline.Fit(trainX, trainY); err != nil {
		return nil, err
	}
	if step, ok := pipeline.NamedStep(ml.StepClassifier); ok {
		logger.Info("classifier fitted",
			zap.Int("iterations", step.Classifier.Iterations),
			zap.String("status", step.Classifier.Status),
			zap.Strings("features", pipeline.FeatureNames()),
		)
	}

	report, err := ml.Evaluate(pipeline, testX, testY)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	logger.Info("held-out evaluation",
		zap.Int("samples", report.Samples),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("log_loss", report.LogLoss),
	)

	return &Result{
		Pipeline:   pipeline,
		Report:     report,
		TrainSize:  len(trainX),
		TestSize:   len(testX),
		Artifact:   filepath.Join(config.OutDir, ml.ArtifactFile),
		LabelCount: counts,
	}, nil
}

// Run fits the pipeline and writes it to the fixed artifact path.
func Run(config Config, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	result, err := Fit(config, logger)
	if err != nil {
		return nil, err
	}
	if err := result.Pipeline.Save(result.Artifact); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	logger.Info("model saved", zap.String("path", result.Artifact))
	return result, nil
}
