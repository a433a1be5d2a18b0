package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
scoring:
  tfidf_weight: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Scoring.TFIDFWeight != 0.5 {
		t.Errorf("tfidf_weight = %v, want 0.5", cfg.Scoring.TFIDFWeight)
	}
	// Unset fields get defaults.
	if cfg.Scoring.KeywordWeight != 0.3 {
		t.Errorf("keyword_weight default = %v, want 0.3", cfg.Scoring.KeywordWeight)
	}
	if cfg.Recommend.DefaultTopK != 5 {
		t.Errorf("default_top_k = %d, want 5", cfg.Recommend.DefaultTopK)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("missing config file should error")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid yaml should error")
	}
}

func TestLoad_PathExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
catalog:
  path: "./catalog.yaml"
model:
  model_path: "/abs/model.onnx"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog.Path != filepath.Join(dir, "catalog.yaml") {
		t.Errorf("catalog path = %q", cfg.Catalog.Path)
	}
	if cfg.Model.ModelPath != "/abs/model.onnx" {
		t.Errorf("absolute model path changed: %q", cfg.Model.ModelPath)
	}
	if cfg.Model.VocabPath != "" {
		t.Errorf("empty path should stay empty, got %q", cfg.Model.VocabPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults: %+v", cfg.Server)
	}
	if cfg.Model.MaxTokens != 256 {
		t.Errorf("max_tokens default = %d, want 256", cfg.Model.MaxTokens)
	}
	if cfg.Scoring.EntityThreshold != 0.3 {
		t.Errorf("entity_threshold default = %v, want 0.3", cfg.Scoring.EntityThreshold)
	}
}
