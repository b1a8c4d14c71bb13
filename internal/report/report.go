package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	excelize "github.com/xuri/excelize/v2"

	"bom-sourcing/internal/matching/model"
)

var ResultColumns = []string{
	"BOM Part Name",
	"Found Part Name",
	"Supplier",
	"Price",
	"Stock Availability",
	"Image",
	"Datasheet Link",
	"Purchase Link",
	"Similarity %",
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func resultRecord(r model.MatchResult) []string {
	return []string{
		r.BomPartName,
		deref(r.FoundPartName),
		deref(r.SupplierName),
		deref(r.Price),
		deref(r.Stock),
		deref(r.ImageURL),
		deref(r.DatasheetURL),
		deref(r.PurchaseLink),
		formatPercent(r.SimilarityPercent),
	}
}

// WriteResultsCSV renders match results, one row per BOM line.
func WriteResultsCSV(w io.Writer, rows []model.MatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(resultRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const resultsSheet = "Results"

// WriteResultsXLSX renders match results into a single-sheet workbook.
func WriteResultsXLSX(w io.Writer, rows []model.MatchResult) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return err
	}

	header := make([]any, len(ResultColumns))
	for i, c := range ResultColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		rec := resultRecord(r)
		vals := make([]any, len(rec))
		for j, v := range rec {
			vals[j] = v
		}
		vals[len(vals)-1] = r.SimilarityPercent
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(resultsSheet, cell, &vals); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// UniqueSuggestions flattens the per-line suggestions in line order and
// drops repeated (supplier, name, link) triples.
func UniqueSuggestions(byLine map[int][]model.Suggestion) []model.Suggestion {
	idx := make([]int, 0, len(byLine))
	for i := range byLine {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	type key struct{ supplier, name, link string }
	seen := make(map[key]struct{})
	var out []model.Suggestion
	for _, i := range idx {
		for _, s := range byLine[i] {
			k := key{s.SupplierName, s.FoundPartName, deref(s.PurchaseLink)}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
