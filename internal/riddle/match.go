package riddle

import (
	"regexp"
	"strings"
)

// DefaultThreshold is the similarity ratio an answer must reach.
const DefaultThreshold = 0.8

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)
	articles = map[string]bool{"a": true, "an": true, "the": true}
)

// Normalize canonicalizes an answer for comparison: lowercase, trimmed,
// punctuation stripped, articles dropped, single-spaced. Idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "")
	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if !articles[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// CheckAnswer grades a submitted answer against the stored one using
// DefaultThreshold. Deliberately fuzzy: minor typos and article or
// punctuation drift still pass.
func CheckAnswer(userInput, correctAnswer string) bool {
	return CheckAnswerThreshold(userInput, correctAnswer, DefaultThreshold)
}

func CheckAnswerThreshold(userInput, correctAnswer string, threshold float64) bool {
	return Ratio(Normalize(userInput), Normalize(correctAnswer)) >= threshold
}

// Ratio is the sequence-similarity measure in [0,1]: twice the total
// length of the longest-matching-blocks alignment divided by the summed
// lengths. Not an edit distance.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	matched := matchingTotal(ra, rb)
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingTotal sums the sizes of all matching blocks: the longest
// common contiguous block is found, then the regions to its left and
// right are matched recursively.
func matchingTotal(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	total := 0
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		total += k
		queue = append(queue,
			span{s.alo, i, s.blo, j},
			span{i + k, s.ahi, j + k, s.bhi},
		)
	}
	return total
}

// longestMatch finds the earliest longest block a[i:i+k] == b[j:j+k]
// within the given window.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
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
