// Package scoring computes the weighted similarity between a normalized
// diagnosis text and catalog entries.
package scoring

import (
	"context"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/clinterm/icdrec/internal/catalog"
	"github.com/clinterm/icdrec/internal/models"
	"github.com/clinterm/icdrec/internal/ner"
	"github.com/clinterm/icdrec/pkg/utils"
)

// Scorer combines four signals against each catalog entry:
// corpus TF-IDF cosine, keyword overlap, entity overlap, and description
// string similarity. The vectorizer is fitted once over the catalog at
// construction; afterwards the scorer is read-only and safe for concurrent use
// (entity extraction permitting).
type Scorer struct {
	config     *Config
	catalog    *catalog.Catalog
	extractor  *ner.ClinicalNER
	vectorizer *Vectorizer
	docVectors []SparseVector
}

// NewScorer fits the vectorizer over the catalog corpus and returns a scorer.
func NewScorer(config *Config, cat *catalog.Catalog, extractor *ner.ClinicalNER) *Scorer {
	if config == nil {
		config = DefaultConfig()
	}
	config.ApplyDefaults()

	vectorizer, docVectors := FitVectorizer(cat.Documents(), VectorizerOptions{
		NgramMin:    config.NgramMin,
		NgramMax:    config.NgramMax,
		MaxFeatures: config.MaxFeatures,
	})
	return &Scorer{
		config:     config,
		catalog:    cat,
		extractor:  extractor,
		vectorizer: vectorizer,
		docVectors: docVectors,
	}
}

// Score computes the weighted similarity in [0, 1] between normalizedText and
// the catalog entry at declaration index idx.
func (s *Scorer) Score(ctx context.Context, normalizedText string, idx int) float64 {
	entry := s.catalog.All()[idx]
	keywords := lowerKeywords(entry.Keywords)

	tfidfScore := Cosine(s.vectorizer.Transform(normalizedText), s.docVectors[idx])
	keywordScore := keywordOverlap(normalizedText, keywords)
	entityScore := s.entityOverlap(ctx, normalizedText, keywords)
	descScore := sequenceRatio(normalizedText, strings.ToLower(entry.Description))

	score := s.config.TFIDFWeight*utils.Clamp01(tfidfScore) +
		s.config.KeywordWeight*utils.Clamp01(keywordScore) +
		s.config.EntityWeight*utils.Clamp01(entityScore) +
		s.config.DescriptionWeight*utils.Clamp01(descScore)

	return utils.Clamp01(score)
}

// MatchedKeywords returns the entry keywords present in normalizedText as
// substrings, preserving catalog keyword order, without duplicates.
func MatchedKeywords(normalizedText string, entry catalog.Entry) []string {
	matched := []string{}
	seen := make(map[string]bool, len(entry.Keywords))
	for _, kw := range entry.Keywords {
		lower := strings.ToLower(kw)
		if seen[lower] {
			continue
		}
		if strings.Contains(normalizedText, lower) {
			matched = append(matched, kw)
			seen[lower] = true
		}
	}
	return matched
}

// keywordOverlap is the fraction of keywords found as substrings of text.
func keywordOverlap(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

// entityOverlap extracts disease/symptom/medication entities and scores the
// fraction that overlap a keyword. Containment is checked both ways, so a
// short entity like "pain" matches "abdominal pain"; that permissiveness is
// part of the scoring contract.
func (s *Scorer) entityOverlap(ctx context.Context, text string, keywords []string) float64 {
	entities := s.relevantEntities(ctx, text)
	if len(entities) == 0 {
		return 0
	}
	matches := 0
	for _, entity := range entities {
		for _, kw := range keywords {
			if strings.Contains(kw, entity) || strings.Contains(entity, kw) {
				matches++
				break
			}
		}
	}
	return float64(matches) / float64(len(entities))
}

// relevantEntities returns the lowercased texts of disease, symptom, and
// medication entities found in text.
func (s *Scorer) relevantEntities(ctx context.Context, text string) []string {
	entities := s.extractor.Extract(ctx, text, s.config.EntityThreshold)
	var relevant []string
	for _, e := range entities {
		switch e.Label {
		case models.LabelDisease, models.LabelSymptom, models.LabelMedication:
			relevant = append(relevant, strings.ToLower(e.Text))
		}
	}
	return relevant
}

// sequenceRatio is the character-level matching-blocks similarity of a and b.
func sequenceRatio(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

func lowerKeywords(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = strings.ToLower(kw)
	}
	return out
}
