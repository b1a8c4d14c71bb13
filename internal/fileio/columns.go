package fileio

import (
	"regexp"
	"strings"
)

var reHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormHeaderKey folds a header name: lowercase, punctuation and underscores
// become single spaces. "Part_Number", "part number" and "PART-NUMBER" fold
// to the same key.
func NormHeaderKey(s string) string {
	s = strings.ToLower(normalizeCell(s))
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ResolveKey finds the actual header in rec for the wanted column. want may
// list alternatives separated by "|"; the first exact (then folded) match
// wins. Returns "" when no header matches.
func ResolveKey(rec Record, want string) string {
	if strings.TrimSpace(want) == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	folded := make(map[string]string, len(rec))
	for k := range rec {
		nk := NormHeaderKey(k)
		if prev, ok := folded[nk]; !ok || k < prev {
			folded[nk] = k
		}
	}
	for _, a := range alts {
		if k, ok := folded[NormHeaderKey(a)]; ok {
			return k
		}
	}
	return ""
}

// Get returns the trimmed value of the wanted column (see ResolveKey).
func (r Record) Get(want string) string {
	k := ResolveKey(r, want)
	if k == "" {
		return ""
	}
	return strings.TrimSpace(r[k])
}
