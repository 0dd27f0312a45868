package keyword

import (
	"sort"
	"strings"
)

// Suggestion is a dictionary term close to a misspelled query term.
type Suggestion struct {
	Term      string
	Distance  int
	Frequency int
}

// SpellChecker suggests dictionary terms for query words that are not in the dictionary.
type SpellChecker struct {
	dictionary     TermDictionary
	maxDistance    int
	minFreq        int
	maxSuggestions int

	terms   []string
	termSet map[string]struct{}
}

// SpellCheckerOption is a functional option for configuring SpellChecker.
type SpellCheckerOption func(*SpellChecker)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithMinFrequency sets the minimum document frequency for suggested terms.
func WithMinFrequency(f int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if f >= 0 {
			s.minFreq = f
		}
	}
}

// WithMaxSuggestions sets the maximum number of suggestions returned.
func WithMaxSuggestions(n int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// NewSpellChecker loads all terms of dict and returns a checker over them.
func NewSpellChecker(dict TermDictionary, opts ...SpellCheckerOption) (*SpellChecker, error) {
	s := &SpellChecker{
		dictionary:     dict,
		maxDistance:    2,
		minFreq:        1,
		maxSuggestions: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	terms, err := dict.GetAllTerms()
	if err != nil {
		return nil, err
	}
	s.terms = terms
	s.termSet = make(map[string]struct{}, len(terms))
	for _, t := range terms {
		s.termSet[strings.ToLower(t)] = struct{}{}
	}
	return s, nil
}

// IsMisspelled reports whether term is absent from the dictionary.
func (s *SpellChecker) IsMisspelled(term string) bool {
	_, ok := s.termSet[strings.ToLower(term)]
	return !ok
}

// Suggest returns dictionary terms within the maximum edit distance of term, closest first,
// then most frequent, then alphabetical.
func (s *SpellChecker) Suggest(term string) []Suggestion {
	term = strings.ToLower(term)
	var out []Suggestion
	for _, candidate := range s.terms {
		if candidate == term {
			continue
		}
		if diff := len([]rune(candidate)) - len([]rune(term)); diff > s.maxDistance || -diff > s.maxDistance {
			continue
		}
		dist := DamerauLevenshteinDistance(term, candidate)
		if dist > s.maxDistance {
			continue
		}
		freq, err := s.dictionary.GetTermFrequency(candidate)
		if err != nil || freq < s.minFreq {
			continue
		}
		out = append(out, Suggestion{Term: candidate, Distance: dist, Frequency: freq})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > s.maxSuggestions {
		out = out[:s.maxSuggestions]
	}
	return out
}

// SuggestQueries returns up to n corrected versions of query. Each alternative replaces one
// misspelled word with one of its suggestions; the first alternative corrects every misspelled
// word with its best suggestion. Returns nil when nothing is misspelled or nothing is close.
func (s *SpellChecker) SuggestQueries(query string, n int) []string {
	words := strings.Fields(strings.ToLower(query))
	best := append([]string(nil), words...)
	perWord := make([][]Suggestion, len(words))
	corrected := false
	for i, w := range words {
		if !s.IsMisspelled(w) {
			continue
		}
		perWord[i] = s.Suggest(w)
		if len(perWord[i]) > 0 {
			best[i] = perWord[i][0].Term
			corrected = true
		}
	}
	if !corrected || n <= 0 {
		return nil
	}

	seen := map[string]struct{}{}
	var out []string
	add := func(q string) {
		if _, ok := seen[q]; ok || len(out) >= n {
			return
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	add(strings.Join(best, " "))
	for i, sugg := range perWord {
		for _, sg := range sugg {
			alt := append([]string(nil), best...)
			alt[i] = sg.Term
			add(strings.Join(alt, " "))
		}
	}
	return out
}
