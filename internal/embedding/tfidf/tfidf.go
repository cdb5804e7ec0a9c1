package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"qabot/internal/domain"
	"qabot/internal/stopwords"
)

var (
	ErrEmptyCorpus     = errors.New("empty corpus for TF-IDF prepare")
	ErrEmptyVocabulary = errors.New("empty vocabulary; questions contain only stop words or no tokens")
	ErrNotPrepared     = errors.New("tfidf embedder not prepared")
	ErrPrepared        = errors.New("tfidf embedder already prepared")
)

// Embedder implements a TF-IDF vectorizer.
// The vocabulary and IDF values are fitted once by Prepare and are read-only
// afterwards, so Embed is safe for concurrent use.
type Embedder struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    stopwords.Set
}

// NewEmbedder creates an unprepared TF-IDF embedder. A nil set disables
// stop-word filtering.
func NewEmbedder(stop stopwords.Set) *Embedder {
	if stop == nil {
		stop = stopwords.Set{}
	}
	return &Embedder{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`),
		stopwords:    stop,
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
func (e *Embedder) Prepare(corpus []string) error {
	if e.prepared {
		return ErrPrepared
	}
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	N := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+N)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the vocabulary size.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the L2-normalized TF-IDF vector for text. Out-of-vocabulary
// terms are ignored; text without known terms yields the zero vector.
func (e *Embedder) Embed(text string) (domain.Vector, error) {
	if !e.prepared {
		return domain.Vector{}, ErrNotPrepared
	}
	tf := make(map[int]int)
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return domain.Vector{}, nil
	}
	indices := make([]int, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	values := make([]float64, len(indices))
	norm := 0.0
	for i, idx := range indices {
		w := float64(tf[idx]) * e.idf[idx]
		values[i] = w
		norm += w * w
	}
	// L2 normalize
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range values {
			values[i] /= norm
		}
	}
	return domain.Vector{Indices: indices, Values: values}, nil
}

func (e *Embedder) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := e.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if e.stopwords.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
