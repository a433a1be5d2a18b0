// Package cli provides output formatting for the icdrec command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/clinterm/icdrec/internal/catalog"
	"github.com/clinterm/icdrec/internal/models"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat returns the OutputFormat for a flag value, or an error for
// unknown values.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteRecommendations writes ranked code recommendations to w in the given format.
func WriteRecommendations(w io.Writer, recs []models.Recommendation, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, recs)
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recommendations.")
		return nil
	}
	for i, rec := range recs {
		fmt.Fprintf(w, "%d. %-8s %.3f  %s [%s]\n", i+1, rec.Code, rec.ConfidenceScore, rec.Description, rec.Category)
		if len(rec.MatchedKeywords) > 0 {
			fmt.Fprintf(w, "   matched: %s\n", strings.Join(rec.MatchedKeywords, ", "))
		}
	}
	return nil
}

// WriteCategoryScores writes a category distribution to w.
func WriteCategoryScores(w io.Writer, scores []models.CategoryScore, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, scores)
	}
	if len(scores) == 0 {
		fmt.Fprintln(w, "No categories.")
		return nil
	}
	for _, cs := range scores {
		fmt.Fprintf(w, "%-16s %.3f\n", cs.Category, cs.Score)
	}
	return nil
}

// WriteEntities writes extracted clinical entities to w.
func WriteEntities(w io.Writer, entities []models.Entity, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, entities)
	}
	if len(entities) == 0 {
		fmt.Fprintln(w, "No entities.")
		return nil
	}
	for _, e := range entities {
		fmt.Fprintf(w, "%-12s %.2f  %s\n", e.Label, e.Confidence, e.Text)
	}
	return nil
}

// WriteEntry writes one catalog entry to w.
func WriteEntry(w io.Writer, entry catalog.Entry, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, entry)
	}
	fmt.Fprintf(w, "Code:        %s\n", entry.Code)
	fmt.Fprintf(w, "Description: %s\n", entry.Description)
	fmt.Fprintf(w, "Category:    %s\n", entry.Category)
	fmt.Fprintf(w, "Keywords:    %s\n", strings.Join(entry.Keywords, ", "))
	return nil
}

// WriteSearchResults writes ranked full-text hits to w.
func WriteSearchResults(w io.Writer, results []catalog.Result, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %-8s %.4f  %s [%s]\n", i+1, r.Entry.Code, r.Score, r.Entry.Description, r.Entry.Category)
	}
	return nil
}
