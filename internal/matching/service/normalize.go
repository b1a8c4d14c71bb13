package service

import (
	"regexp"
	"strings"
)

// Normalize lowercases s and collapses every whitespace run to one space.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(strings.ToLower(s))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// word tokens of two or more letters/digits/underscores; combining marks
// split words
var reToken = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	raw := reToken.FindAllString(strings.ToLower(s), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := englishStopWords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}
