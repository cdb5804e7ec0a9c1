// Package chatbot answers free-text queries with the best-matching answer of
// a fixed question/answer corpus.
package chatbot

import (
	"go.uber.org/zap"

	"qabot/internal/corpus"
	"qabot/internal/domain"
	"qabot/internal/matcher"
	"qabot/internal/stopwords"
)

// DataLoadError is returned when the corpus cannot be loaded or fitted.
type DataLoadError = corpus.DataLoadError

const DefaultFallbackAnswer = "I'm sorry, I don't understand."

// Options configures a Chatbot.
type Options struct {
	Source             corpus.Source
	QuestionColumn     string
	AnswerColumn       string
	StopWords          stopwords.Set
	NormalizeQuestions bool
	// Embedder names the term model implementation; empty selects tfidf.
	Embedder string
	// MinSimilarity enables the confidence threshold when positive: a best
	// score strictly below it yields FallbackAnswer.
	MinSimilarity  float64
	FallbackAnswer string
}

// Chatbot composes the normalizer, corpus index and matcher. All of its state
// is frozen at construction, so Answer may be called concurrently.
type Chatbot struct {
	index    *corpus.Index
	matcher  *matcher.Matcher
	minSim   float64
	fallback string
	logger   *zap.Logger
}

var _ domain.Answerer = (*Chatbot)(nil)

// Initialize loads the corpus at path with the given columns and stop words.
// Empty column names select "question" and "answer"; a nil set selects the
// english stop words.
func Initialize(path, textColumn, answerColumn string, stop stopwords.Set) (*Chatbot, error) {
	return New(Options{
		Source:             corpus.Source{Path: path},
		QuestionColumn:     textColumn,
		AnswerColumn:       answerColumn,
		StopWords:          stop,
		NormalizeQuestions: true,
	}, nil)
}

// New loads the corpus described by opts. On failure no Chatbot is returned
// and the error is a *DataLoadError.
func New(opts Options, logger *zap.Logger) (*Chatbot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	index, err := corpus.Load(opts.Source, corpus.Options{
		Columns:            corpus.Columns{Question: opts.QuestionColumn, Answer: opts.AnswerColumn},
		StopWords:          opts.StopWords,
		NormalizeQuestions: opts.NormalizeQuestions,
		Embedder:           opts.Embedder,
	})
	if err != nil {
		return nil, err
	}
	return FromIndex(index, opts, logger)
}

// FromIndex wraps an already built index.
func FromIndex(index *corpus.Index, opts Options, logger *zap.Logger) (*Chatbot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := matcher.New(index)
	if err != nil {
		return nil, err
	}
	fallback := opts.FallbackAnswer
	if fallback == "" {
		fallback = DefaultFallbackAnswer
	}
	logger.Info("corpus loaded",
		zap.String("source", index.Source()),
		zap.Int("rows", index.Len()),
		zap.Int("vocabulary", index.VocabularyDimension()),
		zap.Float64("min_similarity", opts.MinSimilarity),
	)
	return &Chatbot{
		index:    index,
		matcher:  m,
		minSim:   opts.MinSimilarity,
		fallback: fallback,
		logger:   logger,
	}, nil
}

// Answer returns the answer of the best-matching corpus question. It is
// total: empty or unmatched input still yields the answer of row 0 unless a
// similarity threshold is configured.
func (c *Chatbot) Answer(text string) string {
	return c.Match(text).Answer
}

// Match is Answer with the details of the selected row.
func (c *Chatbot) Match(text string) domain.Match {
	res := c.matcher.BestMatch(text)
	m := domain.Match{
		Index:    res.Index,
		Score:    res.Score,
		Question: c.index.QuestionAt(res.Index),
		Answer:   c.index.AnswerAt(res.Index),
	}
	if c.minSim > 0 && res.Score < c.minSim {
		m.Answer = c.fallback
		m.Fallback = true
	}
	c.logger.Debug("matched query",
		zap.Int("index", m.Index),
		zap.Float64("score", m.Score),
		zap.Bool("fallback", m.Fallback),
	)
	return m
}

// Index exposes the underlying corpus index.
func (c *Chatbot) Index() *corpus.Index { return c.index }
