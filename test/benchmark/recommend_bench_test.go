package benchmark

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/clinterm/icdrec/internal/catalog"
	"github.com/clinterm/icdrec/internal/ner"
	"github.com/clinterm/icdrec/internal/normalize"
	"github.com/clinterm/icdrec/internal/recommend"
	"github.com/clinterm/icdrec/internal/scoring"
)

func newRecommender(b *testing.B) *recommend.Recommender {
	b.Helper()
	logger := zap.NewNop()
	extractor := ner.New(ner.Config{}, logger)
	b.Cleanup(func() { extractor.Close() })
	return recommend.New(catalog.Default(), scoring.DefaultConfig(), extractor, logger)
}

func BenchmarkRecommend(b *testing.B) {
	r := newRecommender(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Recommend(ctx, "patient with type 2 diabetes and chest pain", 5)
	}
}

func BenchmarkVectorizerTransform(b *testing.B) {
	cat := catalog.Default()
	vec, _ := scoring.FitVectorizer(cat.Documents(), scoring.VectorizerOptions{NgramMin: 1, NgramMax: 3, MaxFeatures: 5000})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = vec.Transform("shortness of breath with wheezing and chronic cough")
	}
}

func BenchmarkNormalize(b *testing.B) {
	text := "Pt with HTN, DM, and COPD presenting with SOB and chest pain"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = normalize.Normalize(text)
	}
}

func BenchmarkPatternExtract(b *testing.B) {
	ex := ner.NewPatternExtractor()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ex.Extract(ctx, "hypertension with chest pain, taking metformin and insulin", ner.DefaultThreshold)
	}
}
