package ner

import (
	"context"
	"regexp"

	"github.com/clinterm/icdrec/internal/models"
)

// patternConfidence is assigned to every pattern hit. The threshold is not
// applied on this path since all hits share the same constant.
const patternConfidence = 0.8

// labelPattern pairs a label with its term regex. Declared as a slice so the
// extraction order over labels is fixed.
type labelPattern struct {
	label models.EntityLabel
	re    *regexp.Regexp
}

var medicalPatterns = []labelPattern{
	{models.LabelDisease, regexp.MustCompile(`(?i)\b(?:diabetes|hypertension|cancer|pneumonia|asthma|arthritis|migraine|depression|anxiety)\b`)},
	{models.LabelSymptom, regexp.MustCompile(`(?i)\b(?:pain|fever|nausea|fatigue|headache|cough|shortness of breath|chest pain)\b`)},
	{models.LabelMedication, regexp.MustCompile(`(?i)\b(?:aspirin|ibuprofen|acetaminophen|insulin|metformin|lisinopril|atorvastatin)\b`)},
	{models.LabelAnatomy, regexp.MustCompile(`(?i)\b(?:heart|lung|liver|kidney|brain|stomach|chest|abdomen|head|neck)\b`)},
}

// PatternExtractor matches a fixed vocabulary of clinical terms. It is the
// fallback when no model is available and is fully deterministic: labels are
// scanned in declared order, then match order within each label.
type PatternExtractor struct{}

// NewPatternExtractor returns a pattern extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract returns all vocabulary hits in text. The threshold parameter is
// ignored; every hit carries the same constant confidence.
func (p *PatternExtractor) Extract(ctx context.Context, text string, threshold float64) ([]models.Entity, error) {
	entities := []models.Entity{}
	for _, lp := range medicalPatterns {
		for _, loc := range lp.re.FindAllStringIndex(text, -1) {
			entities = append(entities, models.Entity{
				Text:       text[loc[0]:loc[1]],
				Label:      lp.label,
				Confidence: patternConfidence,
				Start:      loc[0],
				End:        loc[1],
			})
		}
	}
	return entities, nil
}

// Close is a no-op.
func (p *PatternExtractor) Close() error {
	return nil
}
