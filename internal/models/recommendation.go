package models

// Recommendation is one ranked ICD code candidate for a diagnosis text.
// ConfidenceScore is rounded to three decimals and always within [0, 1].
// MatchedKeywords preserves the catalog keyword order, without duplicates.
type Recommendation struct {
	Code            string   `json:"icd_code"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	ConfidenceScore float64  `json:"confidence_score"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// CategoryScore is one entry of a category confidence distribution.
// Distributions are returned as ordered slices (descending by score)
// because a map cannot carry ordering.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}
