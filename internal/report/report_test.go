package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"bom-sourcing/internal/matching/model"
)

func sp(s string) *string { return &s }
func ip(i int) *int       { return &i }

func sampleRows() []model.MatchResult {
	return []model.MatchResult{
		{
			Status:            model.StatusAvailable,
			BomPartName:       "LM7805",
			FoundPartName:     sp("LM7805 Regulator"),
			SupplierName:      sp("Tronic.lk"),
			Price:             sp("Rs 1,250.00"),
			Stock:             sp("In Stock"),
			PurchaseLink:      sp("https://tronic.lk/lm7805"),
			SimilarityPercent: 82.34,
		},
		{Status: model.StatusUnavailable, BomPartName: "unobtainium", SimilarityPercent: 12},
	}
}

func TestWriteResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResultsCSV(&buf, sampleRows()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, ResultColumns, recs[0])
	assert.Equal(t, "LM7805 Regulator", recs[1][1])
	assert.Equal(t, "82.3", recs[1][8])
	assert.Equal(t, "", recs[2][1])
	assert.Equal(t, "12.0", recs[2][8])
}

func TestWriteResultsXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResultsXLSX(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Supplier", rows[0][2])
	assert.Equal(t, "Tronic.lk", rows[1][2])
}

func TestBuildBudget(t *testing.T) {
	lines := []model.BomLine{{PartName: "LM7805", Quantity: ip(4)}, {PartName: "unobtainium"}}
	b := BuildBudget(lines, sampleRows())
	require.Len(t, b, 2)
	assert.Equal(t, 1250.0, b[0].UnitPrice)
	assert.Equal(t, 5000.0, b[0].TotalPrice)
	assert.Equal(t, 0, b[1].Quantity)
	assert.Equal(t, 0.0, b[1].TotalPrice)
}

func TestWriteBudgetXLSX(t *testing.T) {
	lines := []model.BomLine{{PartName: "LM7805", Quantity: ip(4)}, {PartName: "unobtainium", Quantity: ip(1)}}
	var buf bytes.Buffer
	require.NoError(t, WriteBudgetXLSX(&buf, lines, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(budgetSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, budgetTitle, title)

	hdr, err := f.GetCellValue(budgetSheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "Total Price", hdr)

	label, err := f.GetCellValue(budgetSheet, "A6")
	require.NoError(t, err)
	assert.Equal(t, "Overall Total Cost", label)

	formula, err := f.GetCellFormula(budgetSheet, "G6")
	require.NoError(t, err)
	assert.Equal(t, "SUM(G3:G4)", formula)

	w, err := f.GetColWidth(budgetSheet, "D")
	require.NoError(t, err)
	assert.Equal(t, 12.0, w)
}

func TestUniqueSuggestions(t *testing.T) {
	a := model.Suggestion{FoundPartName: "LM7805", SupplierName: "LCSC", PurchaseLink: sp("x")}
	b := model.Suggestion{FoundPartName: "LM7805", SupplierName: "Tronic.lk", PurchaseLink: sp("y")}
	c := model.Suggestion{FoundPartName: "LM317", SupplierName: "LCSC"}

	got := UniqueSuggestions(map[int][]model.Suggestion{
		3: {c, a},
		0: {a, b},
	})
	require.Len(t, got, 3)
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])
	assert.Equal(t, c, got[2])
}
