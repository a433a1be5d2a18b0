package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clinterm/icdrec/internal/models"
	"github.com/clinterm/icdrec/internal/ner"
)

type recommendRequest struct {
	Text string `json:"text"`
	TopK *int   `json:"top_k,omitempty"`
}

type recommendResponse struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	QueryTimeMs     float64                 `json:"query_time_ms"`
}

type batchRecommendRequest struct {
	Texts []string `json:"texts"`
	TopK  *int     `json:"top_k,omitempty"`
}

type batchRecommendResponse struct {
	Results     [][]models.Recommendation `json:"results"`
	QueryTimeMs float64                   `json:"query_time_ms"`
}

type entitiesRequest struct {
	Text      string   `json:"text"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type entitiesResponse struct {
	Entities    []models.Entity                 `json:"entities"`
	Categorized map[models.EntityLabel][]string `json:"categorized"`
	Summary     models.EntitySummary            `json:"summary"`
}

type categoriesRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	topK := s.resolveTopK(req.TopK)
	s.logger.Debug("recommend request", zap.Int("top_k", topK))
	start := time.Now()
	recs := s.recommender.Recommend(r.Context(), req.Text, topK)
	s.respondJSON(w, http.StatusOK, recommendResponse{
		Recommendations: recs,
		QueryTimeMs:     float64(time.Since(start).Microseconds()) / 1000,
	})
}

func (s *Server) handleBatchRecommend(w http.ResponseWriter, r *http.Request) {
	var req batchRecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Texts) == 0 {
		s.respondError(w, http.StatusBadRequest, "texts is required")
		return
	}
	topK := s.resolveTopK(req.TopK)
	s.logger.Debug("batch recommend request", zap.Int("texts", len(req.Texts)), zap.Int("top_k", topK))
	start := time.Now()
	results := s.recommender.BatchRecommend(r.Context(), req.Texts, topK)
	s.respondJSON(w, http.StatusOK, batchRecommendResponse{
		Results:     results,
		QueryTimeMs: float64(time.Since(start).Microseconds()) / 1000,
	})
}

func (s *Server) handleCodeDetails(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	entry, ok := s.recommender.CodeDetails(code)
	if !ok {
		s.respondError(w, http.StatusNotFound, "code not found")
		return
	}
	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleKeywordSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		s.respondError(w, http.StatusBadRequest, "keyword is required")
		return
	}
	limit := queryLimit(r, 10)
	entries := s.recommender.SearchByKeyword(keyword, limit)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"keyword": keyword,
		"count":   len(entries),
		"codes":   entries,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := queryLimit(r, 10)
	results, err := s.index.Query(q, limit)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   q,
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	var req entitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	threshold := ner.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	ctx := r.Context()
	entities := s.extractor.Extract(ctx, req.Text, threshold)
	s.respondJSON(w, http.StatusOK, entitiesResponse{
		Entities:    entities,
		Categorized: s.extractor.ExtractByCategory(ctx, req.Text),
		Summary:     s.extractor.Summary(ctx, req.Text),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	distribution := s.recommender.CategoryDistribution(r.Context(), req.Text)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": distribution,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"codes":        s.recommender.Catalog().Len(),
		"model_backed": s.extractor.ModelBacked(),
	})
}

// resolveTopK applies the configured default and cap to a requested top_k.
func (s *Server) resolveTopK(requested *int) int {
	topK := s.config.Recommend.DefaultTopK
	if requested != nil {
		topK = *requested
	}
	if max := s.config.Recommend.MaxTopK; max > 0 && topK > max {
		topK = max
	}
	return topK
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
