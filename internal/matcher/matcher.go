// Package matcher selects the corpus row most similar to a query.
package matcher

import (
	"errors"
	"fmt"

	"qabot/internal/domain"
	"qabot/internal/textnorm"
)

// Model is the read side of a fitted corpus index.
type Model interface {
	Len() int
	Vectorize(text string) (domain.Vector, error)
	Similarities(v domain.Vector) ([]float64, error)
}

// Matcher finds the best-matching row of a Model. It holds no mutable state
// and is safe for concurrent use.
type Matcher struct {
	model Model
}

func New(model Model) (*Matcher, error) {
	if model == nil || model.Len() == 0 {
		return nil, errors.New("matcher requires a non-empty model")
	}
	return &Matcher{model: model}, nil
}

// Result is the selected row and its cosine similarity to the query.
type Result struct {
	Index int
	Score float64
}

// BestMatch normalizes query, vectorizes it and returns the row with the
// highest cosine similarity. Ties resolve to the lowest index, so a query
// without known terms always yields row 0.
func (m *Matcher) BestMatch(query string) Result {
	vec, err := m.model.Vectorize(textnorm.Normalize(query))
	if err != nil {
		panic(fmt.Sprintf("matcher: vectorize: %v", err))
	}
	scores, err := m.model.Similarities(vec)
	if err != nil {
		panic(fmt.Sprintf("matcher: similarities: %v", err))
	}
	idx, score := Argmax(scores)
	return Result{Index: idx, Score: score}
}

// Argmax returns the first index holding the maximum score. An empty slice
// yields (0, 0).
func Argmax(scores []float64) (int, float64) {
	best, bestScore := 0, 0.0
	for i, s := range scores {
		if i == 0 || s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, bestScore
}
