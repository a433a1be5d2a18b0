//go:build !cgo
// +build !cgo

package ner

import (
	"context"
	"errors"

	"github.com/clinterm/icdrec/internal/models"
)

// ModelExtractor stub type when built without CGO (see onnx.go for the real
// implementation).
type ModelExtractor struct{}

// NewModelExtractor returns an error when built without CGO; callers fall
// back to pattern extraction.
func NewModelExtractor(_ Config) (*ModelExtractor, error) {
	return nil, errors.New("NER model requires CGO; build with CGO_ENABLED=1 and onnxruntime")
}

// Extract is never reachable on the stub.
func (m *ModelExtractor) Extract(_ context.Context, _ string, _ float64) ([]models.Entity, error) {
	return nil, errors.New("NER model not available")
}

// Close is a no-op on the stub.
func (m *ModelExtractor) Close() error {
	return nil
}
