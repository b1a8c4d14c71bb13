package service

import (
	"math"
	"sort"
	"strconv"
)

// SpecSimilarity builds a two-document TF-IDF space for a and b and returns
// their cosine similarity in [0..100]. The space is rebuilt for every pair,
// so idf only distinguishes shared terms from one-sided ones.
func SpecSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	ta := termFreq(tokenize(a))
	tb := termFreq(tokenize(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	vocab := make([]string, 0, len(ta)+len(tb))
	for t := range ta {
		vocab = append(vocab, t)
	}
	for t := range tb {
		if _, ok := ta[t]; !ok {
			vocab = append(vocab, t)
		}
	}
	sort.Strings(vocab)

	const docs = 2.0
	var dot, na, nb float64
	for _, t := range vocab {
		df := 0.0
		if ta[t] > 0 {
			df++
		}
		if tb[t] > 0 {
			df++
		}
		idf := math.Log((1+docs)/(1+df)) + 1
		wa := float64(ta[t]) * idf
		wb := float64(tb[t]) * idf
		dot += wa * wb
		na += wa * wa
		nb += wb * wb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return clamp(sim*100, 0, 100)
}

func termFreq(tokens []string) map[string]int {
	m := make(map[string]int, len(tokens))
	for _, t := range tokens {
		m[t]++
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round1 rounds the exact binary value to one decimal, ties to even, so
// 56.25 gives 56.2.
func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
