package bom

import (
	"errors"
	"fmt"
	"strings"

	"bom-sourcing/internal/fileio"
	"bom-sourcing/internal/matching/model"
	"bom-sourcing/internal/utils"
)

var ErrNoPartColumn = errors.New("bom has neither a Part_Name nor a Part_Number column")

// Column names of the BOM template. Alternatives are separated by "|".
const (
	ColPartName    = "Part_Name|Part_Number|Part|Name"
	ColDescription = "Description"
	ColQuantity    = "Quantity|Qty"
	ColPackage     = "Package|Footprint"
	ColVoltage     = "Voltage"
	ColOtherSpecs  = "Other_Specs|Specs"
)

var expected = []struct{ label, key string }{
	{"Part_Name", ColPartName},
	{"Description", ColDescription},
	{"Quantity", ColQuantity},
	{"Package", ColPackage},
	{"Voltage", ColVoltage},
	{"Other_Specs", ColOtherSpecs},
}

// Template is the CSV served to users as a starting point.
const Template = "Part_Name,Description,Quantity,Package,Voltage,Other_Specs\n" +
	"10k resistor 0805,SMD thick film resistor 1%,10,0805,,\n" +
	"LM7805,5V linear voltage regulator,2,TO-220,5V,1.5A\n"

// Parse maps spreadsheet records onto typed BOM lines. Missing optional
// columns are reported as warnings; lines with an empty part name are kept
// and end up unavailable.
func Parse(recs []fileio.Record) ([]model.BomLine, []string, error) {
	if len(recs) == 0 {
		return nil, []string{"bom has no rows"}, nil
	}

	first := recs[0]
	var missing []string
	for _, c := range expected {
		if fileio.ResolveKey(first, c.key) == "" {
			missing = append(missing, c.label)
		}
	}
	if fileio.ResolveKey(first, ColPartName) == "" {
		return nil, nil, ErrNoPartColumn
	}

	var warnings []string
	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("missing expected columns: %s", strings.Join(missing, ", ")))
	}

	lines := make([]model.BomLine, 0, len(recs))
	for _, r := range recs {
		line := model.BomLine{
			PartName:    r.Get(ColPartName),
			Description: r.Get(ColDescription),
			Package:     r.Get(ColPackage),
			Voltage:     r.Get(ColVoltage),
			OtherSpecs:  r.Get(ColOtherSpecs),
		}
		if q, ok := utils.ParseQuantity(r.Get(ColQuantity)); ok {
			line.Quantity = &q
		}
		lines = append(lines, line)
	}
	return lines, warnings, nil
}
