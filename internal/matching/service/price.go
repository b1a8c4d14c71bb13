package service

import (
	"encoding/json"
	"strconv"
)

// ExtractPrice returns the first tier's "price" (or "unit_price") from a raw
// JSON tier list. Anything missing or malformed yields nil.
func ExtractPrice(raw []byte) *string {
	if len(raw) == 0 {
		return nil
	}
	var tiers []json.RawMessage
	if err := json.Unmarshal(raw, &tiers); err != nil || len(tiers) == 0 {
		return nil
	}
	var first map[string]any
	if err := json.Unmarshal(tiers[0], &first); err != nil {
		return nil
	}
	for _, key := range []string{"price", "unit_price"} {
		if s, ok := priceString(first[key]); ok {
			return &s
		}
	}
	return nil
}

// priceString treats zero values ("" / 0 / false / null) as absent.
func priceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), t != 0
	case bool:
		return strconv.FormatBool(t), t
	default:
		return "", false
	}
}
