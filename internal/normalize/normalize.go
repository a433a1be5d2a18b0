// Package normalize prepares raw diagnosis text for scoring.
package normalize

import (
	"regexp"
	"strings"
)

// abbreviations maps common clinical abbreviations to their expansions.
// Matched as whole words only, after lowercasing.
var abbreviations = map[string]string{
	"htn":  "hypertension",
	"dm":   "diabetes mellitus",
	"cad":  "coronary artery disease",
	"chf":  "congestive heart failure",
	"copd": "chronic obstructive pulmonary disease",
	"gerd": "gastroesophageal reflux disease",
	"mi":   "myocardial infarction",
	"cvd":  "cardiovascular disease",
	"ckd":  "chronic kidney disease",
	"uti":  "urinary tract infection",
	"dvt":  "deep vein thrombosis",
	"pe":   "pulmonary embolism",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// One alternation over all abbreviations. A single pass means an
	// expansion is never re-scanned, so no abbreviation can expand twice.
	abbrevRe = buildAbbrevRegexp()
)

func buildAbbrevRegexp() *regexp.Regexp {
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	return regexp.MustCompile(`\b(` + strings.Join(keys, "|") + `)\b`)
}

// Normalize lowercases text, collapses whitespace runs to single spaces,
// trims the ends, and expands known abbreviations as whole words.
// Normalize is idempotent: applying it twice yields the same result.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	return abbrevRe.ReplaceAllStringFunc(text, func(m string) string {
		return abbreviations[m]
	})
}
