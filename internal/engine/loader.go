package engine

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"coclass/internal/models"
)

// dimension;code;term;description;synonym_string
const fieldsPerRow = 5

var (
	ErrEmptyInput  = errors.New("input has no header line")
	ErrRowShape    = errors.New("row does not have five fields")
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
)

// RowShapeError reports a data row that does not split into five fields.
type RowShapeError struct {
	Line   int
	Fields int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, fieldsPerRow, e.Fields)
}

func (e *RowShapeError) Is(target error) bool {
	return target == ErrRowShape
}

// LoadRows reads semicolon separated rows from r. The first record is the
// header and is discarded without being checked. A blank line is a record
// with no fields, so one between data rows is a shape error; a single
// trailing newline is not.
func LoadRows(r io.Reader) ([]models.Row, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(content) == 0 {
		return nil, ErrEmptyInput
	}
	if off := invalidUTF8(content); off >= 0 {
		return nil, fmt.Errorf("line %d: %w", lineAt(content, off), ErrInvalidUTF8)
	}

	// A blank first line is an empty header. encoding/csv would skip it and
	// take the first data row as the header instead.
	data := content
	lineBase := 0
	blankHeader := false
	if n := blankLine(data); n > 0 {
		data = data[n:]
		lineBase = 1
		blankHeader = true
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if !blankHeader {
		if _, err := cr.Read(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
	}

	var rows []models.Row
	for {
		if off := cr.InputOffset(); blankLine(data[off:]) > 0 {
			return nil, &RowShapeError{Line: lineBase + lineAt(data, int(off)), Fields: 0}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := cr.FieldPos(0)
		line += lineBase
		if len(rec) != fieldsPerRow {
			return nil, &RowShapeError{Line: line, Fields: len(rec)}
		}

		rows = append(rows, models.Row{
			Dimension:   rec[0],
			Code:        rec[1],
			Term:        rec[2],
			Description: rec[3],
			Synonyms:    rec[4],
			Line:        line,
		})
	}
	return rows, nil
}

// blankLine returns the length of the line terminator b starts with, or 0.
func blankLine(b []byte) int {
	switch {
	case len(b) > 0 && b[0] == '\n':
		return 1
	case len(b) > 1 && b[0] == '\r' && b[1] == '\n':
		return 2
	}
	return 0
}

// lineAt returns the 1-based line of byte offset off.
func lineAt(b []byte, off int) int {
	return bytes.Count(b[:off], []byte{'\n'}) + 1
}

// invalidUTF8 returns the offset of the first invalid UTF-8 sequence, or -1.
func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// LoadFile opens path and reads every row from it.
func LoadFile(path string) ([]models.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	rows, err := LoadRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
