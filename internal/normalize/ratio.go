// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

// Ratio computes a sequence-alignment similarity between two normalized
// titles, in [0, 1]. It is the classic longest-matching-subsequence measure:
// 2·M / (len(a) + len(b)), where M is the total length of the matching
// blocks found by recursively locating the longest common substring.
//
// Ratio is symmetric and Ratio(a, a) == 1.0. Two empty strings compare as
// identical. Compared to edit distance this measure is robust to the
// punctuation, casing, and markup noise catalogs introduce when formatting
// the same title.
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingSize(ar, br)) / float64(total)
}

// Similarity normalizes both titles and returns their Ratio.
func Similarity(titleA, titleB string) float64 {
	return Ratio(Title(titleA), Title(titleB))
}

// matchingSize returns the total length of matching blocks between a and b:
// the longest common substring plus, recursively, the matches to its left
// and right.
func matchingSize(a, b []rune) int {
	i, j, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingSize(a[:i], b[:j]) + matchingSize(a[i+size:], b[j+size:])
}

// longestMatch finds the longest common substring of a and b, returning its
// start in a, start in b, and length. Of equally long matches the earliest
// in a wins, which keeps the measure deterministic.
func longestMatch(a, b []rune) (besti, bestj, bestsize int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	// j2len[j] is the length of the longest match ending at b[j] and the
	// current a position.
	j2len := make(map[int]int)
	for i, r := range a {
		newj2len := make(map[int]int, len(j2len))
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
