package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"qabot/internal/chatbot"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qa.csv")
	require.NoError(t, os.WriteFile(path, []byte("question,answer\nhello there,hi!\nwhat is your name,I am a bot.\ngoodbye,bye!\n"), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "absent.yaml")
	cmd := NewRootCommand("test", "abc", "today")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAskCommand(t *testing.T) {
	out, err := execute(t, "", "ask", "--corpus", writeCorpus(t), "Hello", "There!!")
	require.NoError(t, err)
	require.Equal(t, "hi!\n", out)
}

func TestAskShowMatch(t *testing.T) {
	out, err := execute(t, "", "ask", "--corpus", writeCorpus(t), "--show-match", "goodbye")
	require.NoError(t, err)
	require.Contains(t, out, "#2 score=1.0000")
	require.True(t, strings.HasSuffix(out, "bye!\n"))
}

func TestAskMinSimilarityFlag(t *testing.T) {
	out, err := execute(t, "", "ask", "--corpus", writeCorpus(t), "--min-similarity", "0.5", "weather")
	require.NoError(t, err)
	require.Equal(t, chatbot.DefaultFallbackAnswer+"\n", out)
}

func TestAskMissingCorpus(t *testing.T) {
	_, err := execute(t, "", "ask", "--corpus", filepath.Join(t.TempDir(), "missing.csv"), "hello")
	var dle *chatbot.DataLoadError
	require.True(t, errors.As(err, &dle))
}

func TestREPLCommand(t *testing.T) {
	out, err := execute(t, "goodbye\nexit\n", "repl", "--corpus", writeCorpus(t))
	require.NoError(t, err)
	require.Contains(t, out, "Bot: bye!")
	require.Contains(t, out, "Bot: Goodbye!")
}

func TestNormalizeCommand(t *testing.T) {
	out, err := execute(t, "", "normalize", "  Café", "AU", "LAIT ")
	require.NoError(t, err)
	require.Equal(t, "cafe au lait\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Contains(t, out, "qabot test (abc) built on today")
}
