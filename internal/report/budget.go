package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	excelize "github.com/xuri/excelize/v2"

	"bom-sourcing/internal/matching/model"
	"bom-sourcing/internal/utils"
)

const (
	budgetSheet = "Budget"
	budgetTitle = "BOM Budget (v1.0)"
	minColWidth = 12
	maxColWidth = 60
)

var BudgetColumns = []string{
	"BOM Part Name",
	"Found Part Name",
	"Supplier",
	"Quantity",
	"Price",
	"Unit Price",
	"Total Price",
	"Purchase Link",
	"Datasheet Link",
	"Image",
}

// BudgetRow is one costed line of the budget sheet.
type BudgetRow struct {
	BomPartName   string
	FoundPartName string
	Supplier      string
	Quantity      int
	Price         string
	UnitPrice     float64
	TotalPrice    float64
	PurchaseLink  string
	DatasheetLink string
	Image         string
}

// BuildBudget joins BOM lines with their results (same index) and costs them.
func BuildBudget(lines []model.BomLine, rows []model.MatchResult) []BudgetRow {
	out := make([]BudgetRow, 0, len(rows))
	for i, r := range rows {
		qty := 0
		if i < len(lines) && lines[i].Quantity != nil {
			qty = *lines[i].Quantity
		}
		unit := utils.ParseMoney(deref(r.Price))
		out = append(out, BudgetRow{
			BomPartName:   r.BomPartName,
			FoundPartName: deref(r.FoundPartName),
			Supplier:      deref(r.SupplierName),
			Quantity:      qty,
			Price:         deref(r.Price),
			UnitPrice:     unit,
			TotalPrice:    unit * float64(qty),
			PurchaseLink:  deref(r.PurchaseLink),
			DatasheetLink: deref(r.DatasheetURL),
			Image:         deref(r.ImageURL),
		})
	}
	return out
}

// WriteBudgetXLSX writes the budget workbook: a title row, a bold header,
// one row per BOM line and an overall total computed by a SUM formula.
func WriteBudgetXLSX(w io.Writer, lines []model.BomLine, rows []model.MatchResult) error {
	budget := BuildBudget(lines, rows)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), budgetSheet); err != nil {
		return err
	}
	if err := f.SetCellValue(budgetSheet, "A1", budgetTitle); err != nil {
		return err
	}

	widths := make([]int, len(BudgetColumns))
	track := func(col int, v string) {
		if n := utf8.RuneCountInString(v); n > widths[col] {
			widths[col] = n
		}
	}
	track(0, budgetTitle)

	header := make([]any, len(BudgetColumns))
	for i, c := range BudgetColumns {
		header[i] = c
		track(i, c)
	}
	if err := f.SetSheetRow(budgetSheet, "A2", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(BudgetColumns))
	if err := f.SetCellStyle(budgetSheet, "A2", lastCol+"2", bold); err != nil {
		return err
	}

	const firstDataRow = 3
	for i, b := range budget {
		vals := []any{b.BomPartName, b.FoundPartName, b.Supplier, b.Quantity, b.Price,
			b.UnitPrice, b.TotalPrice, b.PurchaseLink, b.DatasheetLink, b.Image}
		for j, v := range vals {
			track(j, fmt.Sprint(v))
		}
		if err := f.SetSheetRow(budgetSheet, fmt.Sprintf("A%d", firstDataRow+i), &vals); err != nil {
			return err
		}
	}

	lastDataRow := firstDataRow + len(budget) - 1
	if len(budget) == 0 {
		lastDataRow = firstDataRow
	}
	totalRow := lastDataRow + 2
	totalCol, _ := excelize.ColumnNumberToName(indexOf(BudgetColumns, "Total Price") + 1)
	if err := f.SetCellValue(budgetSheet, fmt.Sprintf("A%d", totalRow), "Overall Total Cost"); err != nil {
		return err
	}
	totalCell := fmt.Sprintf("%s%d", totalCol, totalRow)
	formula := fmt.Sprintf("SUM(%s%d:%s%d)", totalCol, firstDataRow, totalCol, lastDataRow)
	if err := f.SetCellFormula(budgetSheet, totalCell, formula); err != nil {
		return err
	}
	right, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: "right"}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(budgetSheet, totalCell, totalCell, right); err != nil {
		return err
	}

	for i, n := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(min(max(minColWidth, n+2), maxColWidth))
		if err := f.SetColWidth(budgetSheet, col, col, width); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write budget: %w", err)
	}
	return nil
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
