// Package recommend orchestrates the recommendation pipeline:
// normalize, score the whole catalog, rank, annotate keyword evidence.
package recommend

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/clinterm/icdrec/internal/catalog"
	"github.com/clinterm/icdrec/internal/models"
	"github.com/clinterm/icdrec/internal/ner"
	"github.com/clinterm/icdrec/internal/normalize"
	"github.com/clinterm/icdrec/internal/scoring"
	"github.com/clinterm/icdrec/pkg/utils"
)

// DefaultTopK is the number of recommendations returned when a caller does
// not pick one.
const DefaultTopK = 5

// Recommender ranks catalog codes against diagnosis text. It is read-only
// after construction.
type Recommender struct {
	catalog *catalog.Catalog
	scorer  *scoring.Scorer
	logger  *zap.Logger
}

// New creates a recommender over cat, with the scorer fitted at construction.
func New(cat *catalog.Catalog, scoringConfig *scoring.Config, extractor *ner.ClinicalNER, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{
		catalog: cat,
		scorer:  scoring.NewScorer(scoringConfig, cat, extractor),
		logger:  logger,
	}
}

// Recommend returns the topK highest-scoring codes for diagnosisText.
// Blank input yields an empty slice without invoking the scorer. Codes with
// equal scores keep catalog declaration order.
func (r *Recommender) Recommend(ctx context.Context, diagnosisText string, topK int) []models.Recommendation {
	if strings.TrimSpace(diagnosisText) == "" {
		return []models.Recommendation{}
	}
	if topK < 0 {
		topK = 0
	}

	normalized := normalize.Normalize(diagnosisText)

	entries := r.catalog.All()
	recommendations := make([]models.Recommendation, len(entries))
	for i, entry := range entries {
		recommendations[i] = models.Recommendation{
			Code:            entry.Code,
			Description:     entry.Description,
			Category:        entry.Category,
			ConfidenceScore: utils.Round3(r.scorer.Score(ctx, normalized, i)),
			MatchedKeywords: scoring.MatchedKeywords(normalized, entry),
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ConfidenceScore > recommendations[j].ConfidenceScore
	})

	if topK < len(recommendations) {
		recommendations = recommendations[:topK]
	}
	r.logger.Debug("recommend",
		zap.String("normalized_text", utils.Truncate(normalized, 120)),
		zap.Int("top_k", topK),
		zap.Int("returned", len(recommendations)),
	)
	return recommendations
}

// BatchRecommend computes each text's recommendations independently,
// preserving input order.
func (r *Recommender) BatchRecommend(ctx context.Context, texts []string, topK int) [][]models.Recommendation {
	results := make([][]models.Recommendation, len(texts))
	for i, text := range texts {
		results[i] = r.Recommend(ctx, text, topK)
	}
	return results
}

// CategoryDistribution averages confidence per category over the whole
// catalog, descending by average (category first-occurrence order on ties).
func (r *Recommender) CategoryDistribution(ctx context.Context, diagnosisText string) []models.CategoryScore {
	recommendations := r.Recommend(ctx, diagnosisText, r.catalog.Len())

	var order []string
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range recommendations {
		if counts[rec.Category] == 0 {
			order = append(order, rec.Category)
		}
		sums[rec.Category] += rec.ConfidenceScore
		counts[rec.Category]++
	}

	distribution := make([]models.CategoryScore, 0, len(order))
	for _, category := range order {
		distribution = append(distribution, models.CategoryScore{
			Category: category,
			Score:    utils.Round3(sums[category] / float64(counts[category])),
		})
	}
	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Score > distribution[j].Score
	})
	return distribution
}

// CodeDetails returns the catalog entry for code, with ok=false when unknown.
func (r *Recommender) CodeDetails(code string) (catalog.Entry, bool) {
	return r.catalog.Get(code)
}

// SearchByKeyword returns catalog entries whose description or keywords
// contain term, in declaration order, truncated to max.
func (r *Recommender) SearchByKeyword(term string, max int) []catalog.Entry {
	return r.catalog.SearchByKeyword(term, max)
}

// Catalog exposes the underlying catalog (read-only).
func (r *Recommender) Catalog() *catalog.Catalog {
	return r.catalog
}
