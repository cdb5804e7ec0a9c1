// Package corpus loads the question/answer corpus and fits the term model
// over its questions.
package corpus

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"qabot/internal/domain"
	"qabot/internal/embedding"
	"qabot/internal/embedding/tfidf"
	"qabot/internal/stopwords"
	"qabot/internal/textnorm"
	"qabot/internal/vectorstore"
)

// Options controls how records are turned into an index.
type Options struct {
	Columns Columns
	// StopWords is excluded from the vocabulary. Nil means the english set.
	StopWords stopwords.Set
	// NormalizeQuestions runs textnorm.Normalize over every question before
	// fitting. It is a no-op for a corpus that is already normalized.
	NormalizeQuestions bool
	// Workers bounds the goroutines used to vectorize questions; zero means
	// GOMAXPROCS.
	Workers int
	// Embedder and Store select the implementations by name; empty selects
	// tfidf and memory.
	Embedder string
	Store    string
}

// Index is the immutable corpus: questions, answers, the fitted term model
// and one document vector per question.
type Index struct {
	source    string
	questions []string
	answers   []string
	embedder  embedding.Embedder
	store     vectorstore.Storage
}

// Load reads src and builds an Index from it. Any failure is a
// *DataLoadError.
func Load(src Source, opts Options) (*Index, error) {
	records, err := ReadRecords(src, opts.Columns)
	if err != nil {
		return nil, err
	}
	return Build(src.Path, records, opts)
}

// Build fits the term model over the record questions and precomputes the
// document vectors. source only labels errors.
func Build(source string, records []domain.Record, opts Options) (*Index, error) {
	if len(records) == 0 {
		return nil, loadError(source, "corpus has no rows", nil)
	}
	stop := opts.StopWords
	if stop == nil {
		var err error
		if stop, err = stopwords.Named(stopwords.English); err != nil {
			return nil, err
		}
	}

	questions := make([]string, len(records))
	answers := make([]string, len(records))
	for i, r := range records {
		q := r.Question
		if opts.NormalizeQuestions {
			q = textnorm.Normalize(q)
		}
		questions[i] = q
		answers[i] = r.Answer
	}

	emb, err := embedding.New(opts.Embedder, stop)
	if err != nil {
		return nil, loadError(source, "configure term model", err)
	}
	if err := emb.Prepare(questions); err != nil {
		if errors.Is(err, tfidf.ErrEmptyVocabulary) {
			return nil, loadError(source, "empty vocabulary", err)
		}
		return nil, loadError(source, "fit term model", err)
	}

	vectors := make([]domain.Vector, len(questions))
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range questions {
		i := i
		g.Go(func() error {
			v, err := emb.Embed(questions[i])
			if err != nil {
				return fmt.Errorf("vectorize question %d: %w", i, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, loadError(source, "vectorize", err)
	}

	store, err := vectorstore.New(opts.Store)
	if err != nil {
		return nil, loadError(source, "configure document matrix", err)
	}
	if err := store.Init(emb.Dimension()); err != nil {
		return nil, loadError(source, "init document matrix", err)
	}
	if err := store.Upsert(vectors); err != nil {
		return nil, loadError(source, "store document vectors", err)
	}

	return &Index{
		source:    source,
		questions: questions,
		answers:   answers,
		embedder:  emb,
		store:     store,
	}, nil
}

// Source returns the location the index was loaded from.
func (x *Index) Source() string { return x.source }

// Len returns the number of corpus rows.
func (x *Index) Len() int { return len(x.answers) }

// QuestionAt returns the (possibly normalized) question of row i.
func (x *Index) QuestionAt(i int) string {
	x.mustContain(i)
	return x.questions[i]
}

// AnswerAt returns the answer of row i. It panics when i is out of range;
// indices only ever come from the matcher.
func (x *Index) AnswerAt(i int) string {
	x.mustContain(i)
	return x.answers[i]
}

// DocumentVectors returns the per-question vectors in row order.
func (x *Index) DocumentVectors() []domain.Vector { return x.store.Rows() }

// VocabularyDimension returns the size of the fitted vocabulary.
func (x *Index) VocabularyDimension() int { return x.embedder.Dimension() }

// Vectorize maps text onto the frozen term model. Text is expected to be
// normalized already.
func (x *Index) Vectorize(text string) (domain.Vector, error) {
	return x.embedder.Embed(text)
}

// Similarities scores v against every document vector, in row order.
func (x *Index) Similarities(v domain.Vector) ([]float64, error) {
	return x.store.Similarities(v)
}

func (x *Index) mustContain(i int) {
	if i < 0 || i >= len(x.answers) {
		panic(fmt.Sprintf("corpus: row %d out of range [0,%d)", i, len(x.answers)))
	}
}
