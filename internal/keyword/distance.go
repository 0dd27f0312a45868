// Package keyword provides approximate string matching and spelling suggestions.
package keyword

// DamerauLevenshteinDistance returns the optimal string alignment distance between a and b:
// insertions, deletions, substitutions and transpositions of adjacent runes each cost 1.
func DamerauLevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Three rolling rows: two back (for transpositions), previous, current.
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(rb)]
}

// Match is the best approximate occurrence of a pattern inside a text.
type Match struct {
	Distance int // edits needed to turn the pattern into Text[Start:End]
	Start    int // rune offset
	End      int // rune offset, exclusive
}

// SubstringMatch finds the substring of text with the lowest Levenshtein distance to pattern
// (Sellers' algorithm: a match may start anywhere in text at no cost). Ties resolve to the
// earliest end offset. An empty pattern matches at 0 with distance 0.
func SubstringMatch(pattern, text []rune) Match {
	m := len(pattern)
	if m == 0 {
		return Match{}
	}
	// dist[j] is the cost of aligning the pattern prefix with a substring ending at text[j];
	// start[j] is where that substring begins.
	dist := make([]int, len(text)+1)
	start := make([]int, len(text)+1)
	nextDist := make([]int, len(text)+1)
	nextStart := make([]int, len(text)+1)
	for j := range start {
		start[j] = j
	}
	for i := 1; i <= m; i++ {
		nextDist[0], nextStart[0] = i, 0
		for j := 1; j <= len(text); j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			d, s := dist[j-1]+cost, start[j-1]
			if dist[j]+1 < d {
				d, s = dist[j]+1, start[j]
			}
			if nextDist[j-1]+1 < d {
				d, s = nextDist[j-1]+1, nextStart[j-1]
			}
			nextDist[j], nextStart[j] = d, s
		}
		dist, nextDist = nextDist, dist
		start, nextStart = nextStart, start
	}

	best := Match{Distance: dist[0], Start: 0, End: 0}
	for j := 1; j <= len(text); j++ {
		if dist[j] < best.Distance {
			best = Match{Distance: dist[j], Start: start[j], End: j}
		}
	}
	return best
}
