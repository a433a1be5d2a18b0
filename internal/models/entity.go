// Package models defines the data types shared across the recommendation engine.
package models

// EntityLabel classifies a clinical entity span.
type EntityLabel string

// Labels emitted by the pattern fallback. The model path may emit other
// labels verbatim; callers filter on the ones they care about.
const (
	LabelDisease    EntityLabel = "DISEASE"
	LabelSymptom    EntityLabel = "SYMPTOM"
	LabelMedication EntityLabel = "MEDICATION"
	LabelAnatomy    EntityLabel = "ANATOMY"
)

// Entity is a labeled span of clinically relevant text. Entities are
// produced per extraction call and never persisted.
type Entity struct {
	Text       string      `json:"text"`
	Label      EntityLabel `json:"label"`
	Confidence float64     `json:"confidence"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
}

// EntitySummary aggregates the entities extracted from one text.
type EntitySummary struct {
	TotalEntities  int                 `json:"total_entities"`
	UniqueEntities int                 `json:"unique_entities"`
	Categories     map[EntityLabel]int `json:"categories"`
	AvgConfidence  float64             `json:"avg_confidence"`
}
