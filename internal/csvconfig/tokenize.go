package csvconfig

import (
	"strings"
)

const byteOrderMark = "\uFEFF"

// Tokenize splits tabular text into rows of fields.
//
// A double quote toggles quoted mode anywhere in a field; inside quoted mode
// commas and newlines are literal. Quote characters are never emitted, so a
// doubled quote collapses to nothing. Carriage returns are always dropped.
// A final row without a trailing newline is still flushed, and trailing rows
// whose fields are all empty are trimmed.
func Tokenize(text string) [][]string {
	text = strings.TrimPrefix(text, byteOrderMark)

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)
	pushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	pushRow := func() {
		rows = append(rows, row)
		row = nil
	}

	for _, ch := range text {
		switch {
		case ch == '\r':
			// dropped in both modes
		case ch == '"':
			inQuotes = !inQuotes
		case inQuotes:
			field.WriteRune(ch)
		case ch == ',':
			pushField()
		case ch == '\n':
			pushField()
			pushRow()
		default:
			field.WriteRune(ch)
		}
	}

	// Flush last field/row if not newline-terminated
	if field.Len() > 0 || len(row) > 0 {
		pushField()
		pushRow()
	}

	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
