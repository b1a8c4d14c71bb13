package service

// indelDistance is the insert/delete-only edit distance:
// len(a)+len(b)-2*LCS(a,b).
func indelDistance(ra, rb []rune) int {
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return len(ra) + len(rb) - 2*prev[len(rb)]
}

// NameSimilarity returns the indel ratio of the normalized strings in [0..100].
func NameSimilarity(a, b string) float64 {
	ra := []rune(Normalize(a))
	rb := []rune(Normalize(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	total := len(ra) + len(rb)
	d := indelDistance(ra, rb)
	return 100 * (1 - float64(d)/float64(total))
}
