package csvconfig

import "strings"

// IdentityColumns is the number of fixed leading columns:
// process id, process label, variant id, variant label, summary.
const IdentityColumns = 5

const (
	colProcessID = iota
	colProcessLabel
	colVariantID
	colVariantLabel
	colSummary
)

// HeaderCell is a decoded "id|label" header cell.
type HeaderCell struct {
	ID    string
	Label string
}

// ParseHeaderCell decodes "id|label". The label defaults to the id only when
// it is missing or empty; a label of spaces trims to "". Anything after a
// second separator is ignored.
func ParseHeaderCell(cell string) HeaderCell {
	parts := strings.Split(cell, "|")
	id := strings.TrimSpace(parts[0])
	label := id
	if len(parts) > 1 && parts[1] != "" {
		label = strings.TrimSpace(parts[1])
	}
	return HeaderCell{ID: id, Label: label}
}

// column is one decoded category/option column.
type column struct {
	index    int
	category HeaderCell
	option   HeaderCell
}

// decodeColumns pairs header row 1 (categories) with header row 2 (options)
// from the first category/option column onward. Columns with an empty
// category or option id are left out.
func decodeColumns(header1, header2 []string) []column {
	var cols []column
	for c := IdentityColumns; c < len(header1); c++ {
		cat := ParseHeaderCell(cell(header1, c))
		opt := ParseHeaderCell(cell(header2, c))
		if cat.ID == "" || opt.ID == "" {
			continue
		}
		cols = append(cols, column{index: c, category: cat, option: opt})
	}
	return cols
}

// cell returns row[i], or "" for short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// truthy reports whether a data cell marks its option as allowed.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "x", "1", "yes", "true":
		return true
	default:
		return false
	}
}
