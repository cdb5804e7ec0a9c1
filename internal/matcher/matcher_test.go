package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qabot/internal/corpus"
	"qabot/internal/domain"
)

func scenarioIndex(t *testing.T) *corpus.Index {
	t.Helper()
	idx, err := corpus.Build("scenario", []domain.Record{
		{Question: "hello there", Answer: "hi!"},
		{Question: "what is your name", Answer: "I am a bot."},
		{Question: "goodbye", Answer: "bye!"},
	}, corpus.Options{NormalizeQuestions: true})
	require.NoError(t, err)
	return idx
}

func TestArgmaxFirstMax(t *testing.T) {
	cases := []struct {
		scores []float64
		idx    int
		score  float64
	}{
		{nil, 0, 0},
		{[]float64{0, 0, 0}, 0, 0},
		{[]float64{0.1, 0.5, 0.5}, 1, 0.5},
		{[]float64{0.2, 0.1}, 0, 0.2},
		{[]float64{0, 0, 0.3}, 2, 0.3},
	}
	for _, tc := range cases {
		idx, score := Argmax(tc.scores)
		require.Equal(t, tc.idx, idx, "scores %v", tc.scores)
		require.Equal(t, tc.score, score, "scores %v", tc.scores)
	}
}

func TestNewRejectsEmptyModel(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestBestMatchScenario(t *testing.T) {
	m, err := New(scenarioIndex(t))
	require.NoError(t, err)

	res := m.BestMatch("Hello There!!")
	require.Equal(t, 0, res.Index)
	require.InDelta(t, 1.0, res.Score, 1e-9)

	require.Equal(t, 0, m.BestMatch("HELLO").Index)
	require.Equal(t, 2, m.BestMatch("Goodbye, friend").Index)
}

func TestBestMatchZeroSimilarityIsRowZero(t *testing.T) {
	m, err := New(scenarioIndex(t))
	require.NoError(t, err)

	for _, q := range []string{"", "   ", "the of and", "🙂🙂", "zebra xylophone", "?!"} {
		res := m.BestMatch(q)
		require.Equal(t, 0, res.Index, "query %q", q)
		require.Equal(t, 0.0, res.Score, "query %q", q)
	}
}

func TestBestMatchExactQuestions(t *testing.T) {
	idx, err := corpus.Build("exact", []domain.Record{
		{Question: "how do I reset my password", Answer: "a"},
		{Question: "where is the billing page", Answer: "b"},
		{Question: "reset billing password", Answer: "c"},
		{Question: "contact support team", Answer: "d"},
		{Question: "support hours weekend", Answer: "e"},
	}, corpus.Options{})
	require.NoError(t, err)
	m, err := New(idx)
	require.NoError(t, err)

	for i := 0; i < idx.Len(); i++ {
		require.Equal(t, i, m.BestMatch(idx.QuestionAt(i)).Index, "question %q", idx.QuestionAt(i))
	}
}

func TestBestMatchDeterministic(t *testing.T) {
	a, err := New(scenarioIndex(t))
	require.NoError(t, err)
	b, err := New(scenarioIndex(t))
	require.NoError(t, err)

	for _, q := range []string{"hello", "bye goodbye", "what", "random words"} {
		first := a.BestMatch(q)
		require.Equal(t, first, a.BestMatch(q))
		require.Equal(t, first, b.BestMatch(q))
	}
}
