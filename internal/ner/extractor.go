// Package ner extracts clinical entities from text. A model-backed extractor
// (ONNX token classification) is used when a model can be loaded; otherwise a
// deterministic pattern extractor over a fixed clinical vocabulary takes over.
package ner

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/clinterm/icdrec/internal/models"
)

// DefaultThreshold is the confidence threshold applied when a caller does not
// pick one.
const DefaultThreshold = 0.5

// Extractor produces clinical entities from text. Implementations are chosen
// once at construction and fixed for the instance's lifetime.
type Extractor interface {
	Extract(ctx context.Context, text string, threshold float64) ([]models.Entity, error)
	Close() error
}

// Config holds the model settings for the model-backed extractor.
type Config struct {
	ModelPath  string `yaml:"model_path"`
	VocabPath  string `yaml:"vocab_path"`
	LabelsPath string `yaml:"labels_path"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// ClinicalNER wraps a primary extractor with the pattern fallback. A failed
// model load at construction means the fallback serves every call; a per-call
// model error falls back for that call only. Extract never returns an error.
type ClinicalNER struct {
	primary  Extractor
	fallback *PatternExtractor
	logger   *zap.Logger
}

// New builds a ClinicalNER. When cfg has no model path, or the model fails to
// load, the instance runs in pattern-fallback mode permanently. Construction
// never fails.
func New(cfg Config, logger *zap.Logger) *ClinicalNER {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &ClinicalNER{fallback: NewPatternExtractor(), logger: logger}

	if cfg.ModelPath == "" {
		logger.Info("no NER model configured, using pattern extraction")
		return n
	}
	model, err := NewModelExtractor(cfg)
	if err != nil {
		logger.Warn("failed to load NER model, falling back to pattern extraction",
			zap.String("model_path", cfg.ModelPath),
			zap.Error(err),
		)
		return n
	}
	logger.Info("loaded NER model", zap.String("model_path", cfg.ModelPath))
	n.primary = model
	return n
}

var extractSpaceRe = regexp.MustCompile(`\s+`)

// preprocess collapses whitespace runs and trims the ends. Case is kept: the
// model path is case-sensitive.
func preprocess(text string) string {
	return strings.TrimSpace(extractSpaceRe.ReplaceAllString(text, " "))
}

// Extract returns the entities found in text at or above threshold.
// Empty text yields an empty slice. The threshold applies to the model path
// only; pattern hits all carry the same constant confidence.
func (n *ClinicalNER) Extract(ctx context.Context, text string, threshold float64) []models.Entity {
	text = preprocess(text)
	if text == "" {
		return []models.Entity{}
	}

	if n.primary != nil {
		entities, err := n.primary.Extract(ctx, text, threshold)
		if err == nil {
			return entities
		}
		n.logger.Warn("NER model extraction failed, using pattern extraction for this call", zap.Error(err))
	}

	entities, _ := n.fallback.Extract(ctx, text, threshold)
	return entities
}

// BatchExtract extracts entities from each text independently, order-preserving.
func (n *ClinicalNER) BatchExtract(ctx context.Context, texts []string, threshold float64) [][]models.Entity {
	results := make([][]models.Entity, len(texts))
	for i, text := range texts {
		results[i] = n.Extract(ctx, text, threshold)
	}
	return results
}

// ExtractByCategory groups the extracted entity texts by label, deduplicated,
// in first-seen order within each label.
func (n *ClinicalNER) ExtractByCategory(ctx context.Context, text string) map[models.EntityLabel][]string {
	entities := n.Extract(ctx, text, DefaultThreshold)
	categorized := make(map[models.EntityLabel][]string)
	seen := make(map[models.EntityLabel]map[string]bool)
	for _, e := range entities {
		if seen[e.Label] == nil {
			seen[e.Label] = make(map[string]bool)
		}
		if seen[e.Label][e.Text] {
			continue
		}
		seen[e.Label][e.Text] = true
		categorized[e.Label] = append(categorized[e.Label], e.Text)
	}
	return categorized
}

// Summary reports aggregate statistics over the entities found in text.
func (n *ClinicalNER) Summary(ctx context.Context, text string) models.EntitySummary {
	entities := n.Extract(ctx, text, DefaultThreshold)

	unique := make(map[string]bool)
	categories := make(map[models.EntityLabel]int)
	var confSum float64
	for _, e := range entities {
		unique[strings.ToLower(e.Text)] = true
		categories[e.Label]++
		confSum += e.Confidence
	}
	avg := 0.0
	if len(entities) > 0 {
		avg = confSum / float64(len(entities))
	}
	return models.EntitySummary{
		TotalEntities:  len(entities),
		UniqueEntities: len(unique),
		Categories:     categories,
		AvgConfidence:  avg,
	}
}

// ModelBacked reports whether the model path is active.
func (n *ClinicalNER) ModelBacked() bool {
	return n.primary != nil
}

// Close releases model resources if a model is loaded.
func (n *ClinicalNER) Close() error {
	if n.primary != nil {
		return n.primary.Close()
	}
	return nil
}
