package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.\-]`)

// ParseQuantity parses BOM quantity cells such as "10", "10.0", " 1 200 ".
// Fractions are truncated; empty or garbage cells report false.
func ParseQuantity(s string) (int, bool) {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "").Replace(s)
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

var moneyTokens = strings.NewReplacer("Rs", "", "$", "", "USD", "", "LKR", "", ",", "")

// ParseMoney turns a supplier price string ("Rs 1,250.00", "$0.35") into a
// number. Anything unparseable is 0.
func ParseMoney(s string) float64 {
	s = strings.TrimSpace(moneyTokens.Replace(s))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
