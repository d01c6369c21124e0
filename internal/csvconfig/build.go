package csvconfig

import (
	"fmt"
	"io"
	"strings"

	"github.com/AndyGlx/am-process-selector/internal/model"
)

// Parse builds a Configuration from tabular text.
//
// Row 1 carries "id|label" category cells and row 2 "id|label" option cells
// for every column after the identity columns. Each later row is one variant,
// grouped into processes by process id in first-appearance order. Rows
// without a process id or variant id are skipped. Processes built here never
// carry a process-level compatibility map; they match through their variants.
func Parse(text string) (*model.Configuration, error) {
	rows := Tokenize(text)
	if len(rows) < MinRows {
		return nil, &FormatError{Rows: len(rows)}
	}

	cols := decodeColumns(rows[0], rows[1])
	cfg := &model.Configuration{
		Categories: buildCategories(cols),
	}

	processIndex := make(map[string]int)
	for _, row := range rows[2:] {
		if len(row) == 0 {
			continue
		}
		processID := strings.TrimSpace(cell(row, colProcessID))
		variantID := strings.TrimSpace(cell(row, colVariantID))
		if processID == "" || variantID == "" {
			continue
		}

		idx, ok := processIndex[processID]
		if !ok {
			idx = len(cfg.Processes)
			processIndex[processID] = idx
			cfg.Processes = append(cfg.Processes, model.Process{
				ID:            processID,
				ShortLabel:    processID,
				Label:         orDefault(strings.TrimSpace(cell(row, colProcessLabel)), processID),
				Compatibility: model.CompatibilityMap{},
			})
		}

		cfg.Processes[idx].Variants = append(cfg.Processes[idx].Variants, model.Variant{
			ID:            variantID,
			ShortLabel:    variantID,
			Label:         orDefault(strings.TrimSpace(cell(row, colVariantLabel)), variantID),
			Summary:       strings.TrimSpace(cell(row, colSummary)),
			Compatibility: rowCompatibility(row, cols),
		})
	}

	return cfg, nil
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) (*model.Configuration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csvconfig: read: %w", err)
	}
	return Parse(string(data))
}

// buildCategories collects categories in first-appearance column order, and
// options per category in first-appearance order. The first label seen wins.
func buildCategories(cols []column) []model.Category {
	var categories []model.Category
	position := make(map[string]int)
	for _, col := range cols {
		i, ok := position[col.category.ID]
		if !ok {
			i = len(categories)
			position[col.category.ID] = i
			categories = append(categories, model.Category{
				ID:      col.category.ID,
				Label:   col.category.Label,
				Options: []model.Option{},
			})
		}
		if _, seen := categories[i].Option(col.option.ID); seen {
			continue
		}
		categories[i].Options = append(categories[i].Options, model.Option{
			ID:    col.option.ID,
			Label: col.option.Label,
		})
	}
	return categories
}

// rowCompatibility marks every truthy option cell. A category only gets an
// entry when at least one of its options is marked.
func rowCompatibility(row []string, cols []column) model.CompatibilityMap {
	compat := model.CompatibilityMap{}
	for _, col := range cols {
		if truthy(cell(row, col.index)) {
			compat.Allow(col.category.ID, col.option.ID)
		}
	}
	return compat
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
