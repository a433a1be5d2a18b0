package catalog

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// Index is a full-text search index over the catalog, for ranked free-text
// lookup of codes (as opposed to SearchByKeyword's exact substring contract).
// The index is in-memory and built once from the immutable catalog.
type Index struct {
	catalog *Catalog
	index   bleve.Index
}

// indexDoc is the shape indexed per catalog entry.
type indexDoc struct {
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Category    string `json:"category"`
}

// Result is one full-text hit with its bleve score.
type Result struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// NewIndex builds an in-memory index over the catalog entries.
func NewIndex(c *Catalog) (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so clinical terms
	// match exactly; the English analyzer stems e.g. "ischemic" -> "ischem".
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("description", textFieldMapping)
	docMapping.AddFieldMappingsAt("keywords", textFieldMapping)
	docMapping.AddFieldMappingsAt("category", textFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog index: %w", err)
	}

	batch := index.NewBatch()
	for _, e := range c.All() {
		doc := indexDoc{
			Description: e.Description,
			Keywords:    strings.Join(e.Keywords, " "),
			Category:    e.Category,
		}
		if err := batch.Index(e.Code, doc); err != nil {
			return nil, fmt.Errorf("failed to index code %s: %w", e.Code, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to build catalog index: %w", err)
	}

	return &Index{catalog: c, index: index}, nil
}

// Query runs a match query and returns up to limit entries ranked by score.
func (ix *Index) Query(query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	res, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}
	out := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		entry, ok := ix.catalog.Get(hit.ID)
		if !ok {
			continue
		}
		out = append(out, Result{Entry: entry, Score: hit.Score})
	}
	return out, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.index.Close()
}
