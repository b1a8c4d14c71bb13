package service

import (
	"strings"

	"bom-sourcing/internal/matching/model"
)

// substrings that mark a stock string as "in stock"
var stockMarkers = []string{"in stock", "available", "+", ">", "stock:"}

func inStock(stock string) bool {
	if stock == "" {
		return false
	}
	s := strings.ToLower(stock)
	for _, m := range stockMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// FilterCandidates keeps named parts of the scoped suppliers (and in stock,
// when required). The input order is preserved.
func FilterCandidates(parts []model.Candidate, scope []string, requireInStock bool) []model.Candidate {
	var allowed map[string]struct{}
	if len(scope) > 0 {
		allowed = make(map[string]struct{}, len(scope))
		for _, s := range scope {
			allowed[s] = struct{}{}
		}
	}

	out := make([]model.Candidate, 0, len(parts))
	for _, p := range parts {
		if p.NameOrEmpty() == "" {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[p.Supplier.Name]; !ok {
				continue
			}
		}
		if requireInStock && !inStock(p.Stock) {
			continue
		}
		out = append(out, p)
	}
	return out
}
