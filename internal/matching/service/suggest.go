package service

import (
	"bom-sourcing/internal/matching/model"
)

const (
	SuggestionScanLimit = 50
	SuggestionLimit     = 20
)

type suggestionKey struct {
	supplier string
	name     string
	link     string
	hasLink  bool
}

// BuildSuggestions scans the top capScan candidates (already sorted by score)
// and keeps the first occurrence of every (supplier, name, link) triple, up
// to capOut entries.
func BuildSuggestions(ranked []Scored, capScan, capOut int) []model.Suggestion {
	if capScan > len(ranked) {
		capScan = len(ranked)
	}
	seen := make(map[suggestionKey]struct{}, capScan)
	var out []model.Suggestion
	for _, s := range ranked[:capScan] {
		if len(out) >= capOut {
			break
		}
		name := s.Candidate.NameOrEmpty()
		link := ResolveLink(s.Candidate, &name)

		key := suggestionKey{supplier: s.Candidate.Supplier.Name, name: name}
		if link != nil {
			key.link, key.hasLink = *link, true
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, model.Suggestion{
			FoundPartName:     name,
			SupplierName:      s.Candidate.Supplier.Name,
			Price:             ExtractPrice(s.Candidate.PriceTiers),
			Stock:             s.Candidate.Stock,
			ImageURL:          s.Candidate.ImageURL,
			DatasheetURL:      s.Candidate.DatasheetURL,
			PurchaseLink:      link,
			SimilarityPercent: round1(s.Total),
		})
	}
	return out
}
