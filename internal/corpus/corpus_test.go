package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"qabot/internal/domain"
	"qabot/internal/stopwords"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireLoadError(t *testing.T, err error) *DataLoadError {
	t.Helper()
	require.Error(t, err)
	var dle *DataLoadError
	require.True(t, errors.As(err, &dle), "expected DataLoadError, got %T: %v", err, err)
	return dle
}

func TestReadRecordsCSV(t *testing.T) {
	path := writeFile(t, "qa.csv", "id,question,answer,extra\n"+
		"1,hello there,hi!,x\n"+
		"2,\"what is your name\",\"I am a bot, thanks.\",y\n"+
		"3,goodbye\n")

	records, err := ReadRecords(Source{Path: path}, Columns{})
	require.NoError(t, err)
	require.Equal(t, []domain.Record{
		{Question: "hello there", Answer: "hi!"},
		{Question: "what is your name", Answer: "I am a bot, thanks."},
		{Question: "goodbye", Answer: ""},
	}, records)
}

func TestReadRecordsCustomColumnsAndBOM(t *testing.T) {
	path := writeFile(t, "qa.csv", "\ufeffprompt,reply\nping,pong\n")

	records, err := ReadRecords(Source{Path: path}, Columns{Question: "prompt", Answer: "reply"})
	require.NoError(t, err)
	require.Equal(t, []domain.Record{{Question: "ping", Answer: "pong"}}, records)
}

func TestReadRecordsTSVByExtension(t *testing.T) {
	path := writeFile(t, "qa.tsv", "question\tanswer\nhow are you\tfine, thanks\n")

	records, err := ReadRecords(Source{Path: path}, Columns{})
	require.NoError(t, err)
	require.Equal(t, []domain.Record{{Question: "how are you", Answer: "fine, thanks"}}, records)
}

func TestReadRecordsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"question", "answer"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"hello there", "hi!"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"goodbye", "bye!"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records, err := ReadRecords(Source{Path: path}, Columns{})
	require.NoError(t, err)
	require.Equal(t, []domain.Record{
		{Question: "hello there", Answer: "hi!"},
		{Question: "goodbye", Answer: "bye!"},
	}, records)

	_, err = ReadRecords(Source{Path: path, Sheet: "Missing"}, Columns{})
	requireLoadError(t, err)
}

func TestReadRecordsErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	_, err := ReadRecords(Source{Path: missing}, Columns{})
	dle := requireLoadError(t, err)
	require.Equal(t, missing, dle.Source)
	require.True(t, errors.Is(err, os.ErrNotExist))

	noAnswer := writeFile(t, "qa.csv", "question,reply\nhello,hi\n")
	_, err = ReadRecords(Source{Path: noAnswer}, Columns{})
	dle = requireLoadError(t, err)
	require.Contains(t, dle.Reason, "answer")

	empty := writeFile(t, "empty.csv", "")
	_, err = ReadRecords(Source{Path: empty}, Columns{})
	requireLoadError(t, err)

	_, err = ReadRecords(Source{Path: empty, Format: "parquet"}, Columns{})
	requireLoadError(t, err)

	badQuote := writeFile(t, "bad.csv", "question,answer\n\"unterminated,hi\n")
	_, err = ReadRecords(Source{Path: badQuote}, Columns{})
	requireLoadError(t, err)
}

func TestBuild(t *testing.T) {
	records := []domain.Record{
		{Question: "Hello There", Answer: "hi!"},
		{Question: "what is your name", Answer: "I am a bot."},
		{Question: "goodbye", Answer: "bye!"},
	}
	idx, err := Build("memory", records, Options{NormalizeQuestions: true, Workers: 2})
	require.NoError(t, err)

	require.Equal(t, 3, idx.Len())
	require.Equal(t, "hello there", idx.QuestionAt(0))
	require.Equal(t, "I am a bot.", idx.AnswerAt(1))
	require.Equal(t, 2, idx.VocabularyDimension())

	vectors := idx.DocumentVectors()
	require.Len(t, vectors, 3)
	require.False(t, vectors[0].IsZero())
	require.True(t, vectors[1].IsZero())
	require.False(t, vectors[2].IsZero())
}

func TestBuildCustomStopWords(t *testing.T) {
	records := []domain.Record{{Question: "what is your name", Answer: "bot"}}
	idx, err := Build("memory", records, Options{StopWords: stopwords.FromList([]string{"is"})})
	require.NoError(t, err)
	require.Equal(t, 3, idx.VocabularyDimension())
}

func TestBuildErrors(t *testing.T) {
	_, err := Build("empty", nil, Options{})
	requireLoadError(t, err)

	_, err = Build("stop-only", []domain.Record{{Question: "the", Answer: "x"}, {Question: "", Answer: "y"}}, Options{})
	dle := requireLoadError(t, err)
	require.Equal(t, "empty vocabulary", dle.Reason)
}

func TestAnswerAtOutOfRangePanics(t *testing.T) {
	idx, err := Build("memory", []domain.Record{{Question: "hello", Answer: "hi"}}, Options{})
	require.NoError(t, err)
	require.Panics(t, func() { idx.AnswerAt(1) })
	require.Panics(t, func() { idx.AnswerAt(-1) })
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "qa.csv", "question,answer\nhello there,hi!\ngoodbye,bye!\n")
	idx, err := Load(Source{Path: path}, Options{})
	require.NoError(t, err)
	require.Equal(t, path, idx.Source())
	require.Equal(t, 2, idx.Len())
}
