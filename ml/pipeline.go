package ml

import (
	"errors"
	"fmt"
)

const (
	StepPreprocess = "preprocess"
	StepClassifier = "clf"
)

// ArtifactShape says where a pipeline keeps its class list.
type ArtifactShape string

const (
	// ShapeTopLevel: the artifact itself carries the classes.
	ShapeTopLevel ArtifactShape = "top-level"
	// ShapeNestedStep: the classes live on the classifier step.
	ShapeNestedStep ArtifactShape = "nested-step"
)

// Step is one named stage of a Pipeline. Exactly one of Transformer and
// Classifier is set.
type Step struct {
	Name        string              `json:"name"`
	Transformer *ColumnTransformer  `json:"transformer,omitempty"`
	Classifier  *LogisticRegression `json:"classifier,omitempty"`
}

// Pipeline chains the column transformer and the classifier. It is the model
// artifact handed from the trainer to the service.
type Pipeline struct {
	Format      string   `json:"format"`
	ClassLabels []string `json:"classes,omitempty"`
	Steps       []Step   `json:"steps"`
}

func NewPipeline(preprocess *ColumnTransformer, clf *LogisticRegression) *Pipeline {
	return &Pipeline{
		Format: ArtifactFormat,
		Steps: []Step{
			{Name: StepPreprocess, Transformer: preprocess},
			{Name: StepClassifier, Classifier: clf},
		},
	}
}

func (p *Pipeline) NamedStep(name string) (*Step, bool) {
	for i := range p.Steps {
		if p.Steps[i].Name == name {
			return &p.Steps[i], true
		}
	}
	return nil, false
}

func (p *Pipeline) Fit(rows []Row, labels []string) error {
	preprocess, clf, err := p.stages()
	if err != nil {
		return err
	}
	if err := preprocess.Fit(rows); err != nil {
		return fmt.Errorf("fit %s: %w", StepPreprocess, err)
	}
	features, err := preprocess.TransformAll(rows)
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	if err := clf.Fit(features, labels); err != nil {
		return fmt.Errorf("fit %s: %w", StepClassifier, err)
	}
	return nil
}

func (p *Pipeline) PredictProba(row Row) ([]float64, error) {
	preprocess, clf, err := p.stages()
	if err != nil {
		return nil, err
	}
	features, err := preprocess.Transform(row)
	if err != nil {
		return nil, err
	}
	return clf.PredictProba(features)
}

// Classes resolves the class list. Two artifact shapes are recognized: classes
// stored on the pipeline itself, or on the step named "clf". Anything else
// yields ErrClassesNotFound.
func (p *Pipeline) Classes() ([]string, ArtifactShape, error) {
	if len(p.ClassLabels) > 0 {
		return p.ClassLabels, ShapeTopLevel, nil
	}
	if step, ok := p.NamedStep(StepClassifier); ok && step.Classifier != nil && len(step.Classifier.Classes) > 0 {
		return step.Classifier.Classes, ShapeNestedStep, nil
	}
	return nil, "", ErrClassesNotFound
}

func (p *Pipeline) FeatureNames() []string {
	preprocess, _, err := p.stages()
	if err != nil {
		return nil
	}
	return preprocess.FeatureNames()
}

// Validate checks that the pipeline can run inference. A missing class list is
// not a validation error; it surfaces per prediction via Classes.
func (p *Pipeline) Validate() error {
	if p.Format != ArtifactFormat {
		return fmt.Errorf("unsupported artifact format %q", p.Format)
	}
	preprocess, clf, err := p.stages()
	if err != nil {
		return err
	}
	if !preprocess.fitted() {
		return fmt.Errorf("%s: %w", StepPreprocess, ErrNotFitted)
	}
	if len(clf.Coef) == 0 {
		return fmt.Errorf("%s: %w", StepClassifier, ErrNotFitted)
	}
	if len(clf.Coef) != len(clf.Intercept) {
		return fmt.Errorf("%s: %d coefficient rows but %d intercepts", StepClassifier, len(clf.Coef), len(clf.Intercept))
	}
	for k, coef := range clf.Coef {
		if len(coef) != preprocess.Width() {
			return fmt.Errorf("%s: coefficient row %d has %d weights, transformer emits %d", StepClassifier, k, len(coef), preprocess.Width())
		}
	}
	classes, _, err := p.Classes()
	if err == nil && len(classes) != len(clf.Coef) {
		return fmt.Errorf("%d classes but %d coefficient rows", len(classes), len(clf.Coef))
	}
	return nil
}

func (p *Pipeline) stages() (*ColumnTransformer, *LogisticRegression, error) {
	pre, ok := p.NamedStep(StepPreprocess)
	if !ok || pre.Transformer == nil {
		return nil, nil, errors.New("pipeline has no preprocess step")
	}
	clf, ok := p.NamedStep(StepClassifier)
	if !ok || clf.Classifier == nil {
		return nil, nil, errors.New("pipeline has no clf step")
	}
	return pre.Transformer, clf.Classifier, nil
}
