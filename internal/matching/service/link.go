package service

import (
	"net/url"
	"strings"

	"bom-sourcing/internal/matching/model"
)

const queryPlaceholder = "{query}"

// ResolveLink picks the purchase link for c: its own purchase URL, then the
// supplier search template filled with fallbackQuery, then the supplier
// home page. Nil when none is known.
func ResolveLink(c model.Candidate, fallbackQuery *string) *string {
	if c.PurchaseURL != "" {
		return strPtr(c.PurchaseURL)
	}
	if c.Rule != nil && c.Rule.SearchURLTemplate != nil && fallbackQuery != nil {
		link := strings.ReplaceAll(*c.Rule.SearchURLTemplate, queryPlaceholder, url.QueryEscape(*fallbackQuery))
		return &link
	}
	if c.Supplier.BaseURL != "" {
		return strPtr(c.Supplier.BaseURL)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
