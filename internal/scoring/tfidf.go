package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenRe selects word tokens of two or more characters, matching the
// vectorizer's token contract.
var tokenRe = regexp.MustCompile(`\b\w\w+\b`)

// SparseVector is an l2-normalized sparse term-weight vector indexed by
// vocabulary position.
type SparseVector map[int]float64

// Vectorizer is a TF-IDF vectorizer fitted once over the catalog corpus and
// read-only afterwards. Word n-grams of length ngramMin..ngramMax are built
// after stop-word removal; the vocabulary is capped at maxFeatures terms by
// corpus frequency; idf is smoothed: ln((1+n)/(1+df)) + 1.
type Vectorizer struct {
	vocab    map[string]int
	idf      []float64
	ngramMin int
	ngramMax int
}

// VectorizerOptions configure a fit. Zero values take the engine defaults
// (1-3 grams, 5000 features).
type VectorizerOptions struct {
	NgramMin    int
	NgramMax    int
	MaxFeatures int
}

// FitVectorizer fits a vectorizer over docs and returns it together with the
// vector of each doc, in input order.
func FitVectorizer(docs []string, opts VectorizerOptions) (*Vectorizer, []SparseVector) {
	if opts.NgramMin <= 0 {
		opts.NgramMin = 1
	}
	if opts.NgramMax < opts.NgramMin {
		opts.NgramMax = 3
	}
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = 5000
	}

	v := &Vectorizer{ngramMin: opts.NgramMin, ngramMax: opts.NgramMax}

	// Corpus pass: term frequency across all docs and per-doc term counts.
	totalTF := make(map[string]int)
	df := make(map[string]int)
	docTerms := make([]map[string]int, len(docs))
	for i, doc := range docs {
		counts := make(map[string]int)
		for _, term := range v.analyze(doc) {
			counts[term]++
		}
		docTerms[i] = counts
		for term, c := range counts {
			totalTF[term] += c
			df[term]++
		}
	}

	// Vocabulary selection: every term qualifies (min document frequency 1);
	// when over the cap, keep the most frequent terms, ties alphabetical.
	terms := make([]string, 0, len(totalTF))
	for term := range totalTF {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totalTF[terms[i]] != totalTF[terms[j]] {
			return totalTF[terms[i]] > totalTF[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > opts.MaxFeatures {
		terms = terms[:opts.MaxFeatures]
	}
	sort.Strings(terms)

	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.vocab[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([]SparseVector, len(docs))
	for i, counts := range docTerms {
		vectors[i] = v.vectorize(counts)
	}
	return v, vectors
}

// Transform vectorizes ad-hoc text against the fitted vocabulary.
// Out-of-vocabulary terms are dropped.
func (v *Vectorizer) Transform(text string) SparseVector {
	counts := make(map[string]int)
	for _, term := range v.analyze(text) {
		counts[term]++
	}
	return v.vectorize(counts)
}

// VocabularySize returns the number of fitted terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocab)
}

// analyze lowercases, tokenizes, removes stop words, and emits n-grams.
func (v *Vectorizer) analyze(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if !englishStopWords[tok] {
			tokens = append(tokens, tok)
		}
	}

	var terms []string
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// vectorize builds the l2-normalized tf-idf vector from raw term counts.
func (v *Vectorizer) vectorize(counts map[string]int) SparseVector {
	vec := make(SparseVector)
	var sumSq float64
	for term, tf := range counts {
		idx, ok := v.vocab[term]
		if !ok {
			continue
		}
		w := float64(tf) * v.idf[idx]
		vec[idx] = w
		sumSq += w * w
	}
	if sumSq > 0 {
		norm := 1 / math.Sqrt(sumSq)
		for idx := range vec {
			vec[idx] *= norm
		}
	}
	return vec
}

// Cosine returns the cosine similarity of two normalized sparse vectors
// (their dot product).
func Cosine(a, b SparseVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			dot += av * bv
		}
	}
	return dot
}
