package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ArtifactFormat = "phenotype-pipeline/v1"
	// ArtifactFile is the fixed artifact filename shared by trainer and service.
	ArtifactFile = "phenotype_model.json"
)

func (p *Pipeline) Save(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func LoadPipeline(path string) (*Pipeline, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Pipeline
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}
	return &p, nil
}

// LoadModel reads the artifact at path. Any error is meant to be fatal to the
// caller; there is no retry.
func LoadModel(path string) (Model, error) {
	if path == "" {
		return nil, errors.New("model path is required")
	}
	p, err := LoadPipeline(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}
