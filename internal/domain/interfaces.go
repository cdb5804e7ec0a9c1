package domain

// Record is a single question/answer pair of the corpus.
type Record struct {
	Question string
	Answer   string
}

// Vector is a sparse weighted-term vector. Indices are strictly increasing
// vocabulary dimensions; Values holds the weight for each index.
type Vector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no non-zero entries.
func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Match is the outcome of matching a query against the corpus.
type Match struct {
	Index    int
	Score    float64
	Question string
	Answer   string
	// Fallback is set when the score fell below the configured minimum
	// similarity and Answer holds the fallback text.
	Fallback bool
}

// Speaker identifies the author of a conversation turn.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Turn is one entry of a conversation log kept by a front-end.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Message string  `json:"message"`
}

// Embedder converts free text into a sparse vector representation.
// Prepare must be called exactly once before Embed.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) (Vector, error)
}

// VectorStore holds the fixed document vectors and scores a query vector
// against every row.
type VectorStore interface {
	Init(dimension int) error
	Upsert(vectors []Vector) error
	Similarities(vector Vector) ([]float64, error)
	Rows() []Vector
	Len() int
}

// Answerer is the operation exposed to front-ends.
type Answerer interface {
	Answer(text string) string
	Match(text string) Match
}
