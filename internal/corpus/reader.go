package corpus

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"qabot/internal/domain"
)

const (
	FormatAuto = "auto"
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatXLSX = "xlsx"
)

// Source locates a tabular corpus.
type Source struct {
	Path string
	// Format is one of auto, csv, tsv or xlsx. Auto picks by extension and
	// falls back to csv.
	Format string
	// Sheet selects the worksheet of an xlsx file; empty means the first one.
	Sheet string
}

// Columns names the question and answer columns of the header row.
type Columns struct {
	Question string
	Answer   string
}

// ReadRecords parses src into records in row order. Columns other than the
// question and answer columns are ignored; missing cells become "".
func ReadRecords(src Source, cols Columns) ([]domain.Record, error) {
	if cols.Question == "" {
		cols.Question = "question"
	}
	if cols.Answer == "" {
		cols.Answer = "answer"
	}
	format, err := resolveFormat(src)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = readDelimited(src.Path, ',')
	case FormatTSV:
		rows, err = readDelimited(src.Path, '\t')
	case FormatXLSX:
		rows, err = readXLSX(src.Path, src.Sheet)
	}
	if err != nil {
		return nil, err
	}
	return toRecords(src.Path, rows, cols)
}

func resolveFormat(src Source) (string, error) {
	switch strings.ToLower(src.Format) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatTSV:
		return FormatTSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatAuto, "":
	default:
		return "", loadError(src.Path, "unknown format "+src.Format, nil)
	}
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return FormatCSV, nil
	}
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadError(path, "open", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadError(path, "parse", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, loadError(path, "open xlsx", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, loadError(path, "workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, loadError(path, "read sheet "+sheet, err)
	}
	out := rows[:0]
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func toRecords(path string, rows [][]string, cols Columns) ([]domain.Record, error) {
	if len(rows) == 0 {
		return nil, loadError(path, "missing header row", nil)
	}
	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	qIdx, aIdx := columnIndex(header, cols.Question), columnIndex(header, cols.Answer)
	if qIdx < 0 {
		return nil, loadError(path, "missing column "+cols.Question, nil)
	}
	if aIdx < 0 {
		return nil, loadError(path, "missing column "+cols.Answer, nil)
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, domain.Record{
			Question: cell(row, qIdx),
			Answer:   cell(row, aIdx),
		})
	}
	return records, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
