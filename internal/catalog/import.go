package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bom-sourcing/internal/fileio"
)

const importBatchSize = 250

// PartRow is one row of a manual catalog sheet.
type PartRow struct {
	Supplier     string
	PartNumber   string
	Name         string
	Description  string
	Package      string
	Voltage      string
	OtherSpecs   string
	Stock        string
	Price        string
	DatasheetURL string
	PurchaseURL  string
	ImageURL     string
}

type ImportStats struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// RowsFromRecords maps spreadsheet records onto catalog rows.
func RowsFromRecords(recs []fileio.Record) []PartRow {
	out := make([]PartRow, 0, len(recs))
	for _, r := range recs {
		out = append(out, PartRow{
			Supplier:     r.Get("Supplier"),
			PartNumber:   r.Get("Part_Number"),
			Name:         r.Get("Name|Part_Name"),
			Description:  r.Get("Description"),
			Package:      r.Get("Package"),
			Voltage:      r.Get("Voltage"),
			OtherSpecs:   r.Get("Other_Specs"),
			Stock:        r.Get("Stock|Stock_Availability"),
			Price:        r.Get("Price"),
			DatasheetURL: r.Get("Datasheet|Datasheet_Link"),
			PurchaseURL:  r.Get("Purchase_Link|Purchase_URL"),
			ImageURL:     r.Get("Image|Image_URL"),
		})
	}
	return out
}

// ImportParts inserts rows for known suppliers in batches. Rows naming an
// unknown supplier are skipped.
func (s *Store) ImportParts(ctx context.Context, rows []PartRow) (ImportStats, error) {
	var stats ImportStats
	sups, err := s.Suppliers(ctx)
	if err != nil {
		return stats, fmt.Errorf("load suppliers: %w", err)
	}
	ids := make(map[string]uint, len(sups))
	for _, sp := range sups {
		ids[sp.Name] = sp.ID
	}

	parts := make([]Part, 0, len(rows))
	for _, r := range rows {
		id, ok := ids[r.Supplier]
		if !ok {
			stats.Skipped++
			continue
		}
		p, err := r.toPart(id)
		if err != nil {
			return stats, err
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return stats, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(parts, importBatchSize).Error
	})
	if err != nil {
		return stats, fmt.Errorf("insert parts: %w", err)
	}
	stats.Imported = len(parts)
	return stats, nil
}

func (r PartRow) toPart(supplierID uint) (Part, error) {
	tiers, err := json.Marshal([]PriceTier{{Qty: 1, Price: r.Price}})
	if err != nil {
		return Part{}, err
	}
	p := Part{
		SupplierID:   supplierID,
		PartNumber:   r.PartNumber,
		Description:  r.Description,
		Package:      r.Package,
		Voltage:      r.Voltage,
		OtherSpecs:   r.OtherSpecs,
		Stock:        r.Stock,
		PriceTiers:   datatypes.JSON(tiers),
		DatasheetURL: r.DatasheetURL,
		PurchaseURL:  r.PurchaseURL,
		ImageURL:     r.ImageURL,
	}
	if r.Name != "" {
		name := r.Name
		p.Name = &name
	}
	return p, nil
}

// DefaultSuppliers are created on first start.
var DefaultSuppliers = []Supplier{
	{Name: "Tronic.lk", BaseURL: "https://tronic.lk", IsActive: true},
	{Name: "LCSC", BaseURL: "https://www.lcsc.com", IsActive: true},
	{Name: "Mouser", BaseURL: "https://www.mouser.com", IsActive: true},
}

// SeedIfEmpty creates the default suppliers and imports rows when the
// catalog holds neither suppliers nor parts. It reports whether it seeded.
func (s *Store) SeedIfEmpty(ctx context.Context, rows []PartRow) (bool, ImportStats, error) {
	c, err := s.Counts(ctx)
	if err != nil {
		return false, ImportStats{}, err
	}
	if c.Suppliers > 0 || c.Parts > 0 {
		return false, ImportStats{}, nil
	}
	for _, sup := range DefaultSuppliers {
		if _, err := s.AddSupplier(ctx, sup.Name, sup.BaseURL, nil); err != nil {
			return false, ImportStats{}, err
		}
	}
	stats, err := s.ImportParts(ctx, rows)
	return true, stats, err
}
