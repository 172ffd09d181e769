package ml

import "errors"

var (
	ErrNotFitted       = errors.New("model not fitted")
	ErrClassesNotFound = errors.New("model classes not found")
)

// Transformer turns a labeled row into a dense feature vector.
type Transformer interface {
	Fit(rows []Row) error
	Transform(row Row) ([]float64, error)
	FeatureNames() []string
}

// Classifier is a probabilistic classifier over dense feature vectors.
type Classifier interface {
	Fit(features [][]float64, labels []string) error
	PredictProba(features []float64) ([]float64, error)
}

// Model is what the service needs from a loaded artifact.
type Model interface {
	PredictProba(row Row) ([]float64, error)
	Classes() ([]string, ArtifactShape, error)
}

var (
	_ Transformer = (*ColumnTransformer)(nil)
	_ Classifier  = (*LogisticRegression)(nil)
	_ Model       = (*Pipeline)(nil)
)
