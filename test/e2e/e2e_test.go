package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/clinterm/icdrec/internal/catalog"
	"github.com/clinterm/icdrec/internal/config"
	"github.com/clinterm/icdrec/internal/models"
	"github.com/clinterm/icdrec/internal/ner"
	"github.com/clinterm/icdrec/internal/recommend"
	"github.com/clinterm/icdrec/internal/scoring"
	"github.com/clinterm/icdrec/internal/server"
)

// startServer builds the full engine on the built-in catalog and serves the
// API over a test listener.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := catalog.Default()
	index, err := catalog.NewIndex(cat)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { index.Close() })
	logger := zap.NewNop()
	extractor := ner.New(ner.Config{}, logger)
	t.Cleanup(func() { extractor.Close() })
	recommender := recommend.New(cat, scoring.DefaultConfig(), extractor, logger)
	srv := server.NewServer(recommender, index, extractor, config.Default(), logger)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) int {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode
}

func TestE2E_RecommendScenarios(t *testing.T) {
	ts := startServer(t)

	for _, sc := range BuildScenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			var out struct {
				Recommendations []models.Recommendation `json:"recommendations"`
			}
			status := postJSON(t, ts.URL+"/api/v1/recommend",
				map[string]interface{}{"text": sc.Text, "top_k": 5}, &out)
			if status != http.StatusOK {
				t.Fatalf("status = %d", status)
			}
			if len(out.Recommendations) == 0 {
				t.Fatal("no recommendations")
			}
			top := out.Recommendations[0]
			if top.Code != sc.ExpectedCode {
				t.Errorf("top code = %s (%.3f), want %s", top.Code, top.ConfidenceScore, sc.ExpectedCode)
			}
			if top.Category != sc.Category {
				t.Errorf("top category = %s, want %s", top.Category, sc.Category)
			}
		})
	}
}

func TestE2E_BatchRecommend(t *testing.T) {
	ts := startServer(t)
	scenarios := BuildScenarios()
	texts := make([]string, len(scenarios))
	for i, sc := range scenarios {
		texts[i] = sc.Text
	}

	var out struct {
		Results [][]models.Recommendation `json:"results"`
	}
	status := postJSON(t, ts.URL+"/api/v1/recommend/batch",
		map[string]interface{}{"texts": texts, "top_k": 3}, &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(out.Results) != len(texts) {
		t.Fatalf("got %d results, want %d", len(out.Results), len(texts))
	}
	for i, sc := range scenarios {
		if len(out.Results[i]) == 0 {
			t.Errorf("%s: no recommendations", sc.Name)
			continue
		}
		if out.Results[i][0].Code != sc.ExpectedCode {
			t.Errorf("%s: top code = %s, want %s", sc.Name, out.Results[i][0].Code, sc.ExpectedCode)
		}
		if len(out.Results[i]) > 3 {
			t.Errorf("%s: got %d recommendations, want at most 3", sc.Name, len(out.Results[i]))
		}
	}
}

func TestE2E_EntitiesAndCategories(t *testing.T) {
	ts := startServer(t)

	var entOut struct {
		Entities []models.Entity      `json:"entities"`
		Summary  models.EntitySummary `json:"summary"`
	}
	status := postJSON(t, ts.URL+"/api/v1/entities",
		map[string]interface{}{"text": "patient with hypertension taking lisinopril"}, &entOut)
	if status != http.StatusOK {
		t.Fatalf("entities status = %d", status)
	}
	labels := make(map[models.EntityLabel]bool)
	for _, e := range entOut.Entities {
		labels[e.Label] = true
	}
	if !labels[models.LabelDisease] || !labels[models.LabelMedication] {
		t.Errorf("expected DISEASE and MEDICATION entities, got %v", entOut.Entities)
	}

	var catOut struct {
		Categories []models.CategoryScore `json:"categories"`
	}
	status = postJSON(t, ts.URL+"/api/v1/categories",
		map[string]interface{}{"text": "type 2 diabetes with hyperglycemia"}, &catOut)
	if status != http.StatusOK {
		t.Fatalf("categories status = %d", status)
	}
	if len(catOut.Categories) == 0 {
		t.Fatal("no categories")
	}
	if catOut.Categories[0].Category != "Endocrine" {
		t.Errorf("top category = %s, want Endocrine", catOut.Categories[0].Category)
	}
	for i := 1; i < len(catOut.Categories); i++ {
		if catOut.Categories[i].Score > catOut.Categories[i-1].Score {
			t.Errorf("categories not sorted at %d", i)
		}
	}
}

func TestE2E_CatalogEndpoints(t *testing.T) {
	ts := startServer(t)

	var entry catalog.Entry
	if status := getJSON(t, ts.URL+"/api/v1/codes/J45.9", &entry); status != http.StatusOK {
		t.Fatalf("details status = %d", status)
	}
	if entry.Code != "J45.9" || entry.Category != "Respiratory" {
		t.Errorf("entry = %+v", entry)
	}
	if status := getJSON(t, ts.URL+"/api/v1/codes/X00.0", nil); status != http.StatusNotFound {
		t.Errorf("unknown code status = %d, want 404", status)
	}

	var kwOut struct {
		Count int             `json:"count"`
		Codes []catalog.Entry `json:"codes"`
	}
	if status := getJSON(t, ts.URL+"/api/v1/codes?keyword=pain&limit=50", &kwOut); status != http.StatusOK {
		t.Fatalf("keyword status = %d", status)
	}
	if kwOut.Count == 0 {
		t.Error("expected keyword matches for pain")
	}

	var searchOut struct {
		Count   int              `json:"count"`
		Results []catalog.Result `json:"results"`
	}
	if status := getJSON(t, ts.URL+"/api/v1/search?q=pneumonia", &searchOut); status != http.StatusOK {
		t.Fatalf("search status = %d", status)
	}
	if searchOut.Count == 0 || searchOut.Results[0].Entry.Code != "J18.9" {
		t.Errorf("search results = %+v", searchOut.Results)
	}
}

func TestE2E_Health(t *testing.T) {
	ts := startServer(t)
	var out struct {
		Status string `json:"status"`
		Codes  int    `json:"codes"`
	}
	if status := getJSON(t, fmt.Sprintf("%s/health", ts.URL), &out); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if out.Status != "ok" || out.Codes == 0 {
		t.Errorf("health = %+v", out)
	}
}
