package embedding

import (
	"fmt"

	"qabot/internal/domain"
	"qabot/internal/embedding/tfidf"
	"qabot/internal/stopwords"
)

// Embedder converts free text into a sparse vector representation.
// Implementations require a single preparation phase over the corpus.
type Embedder = domain.Embedder

// New returns the embedder registered under kind.
func New(kind string, stop stopwords.Set) (Embedder, error) {
	switch kind {
	case "tfidf", "":
		return tfidf.NewEmbedder(stop), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", kind)
	}
}
