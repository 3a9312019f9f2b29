package turn

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/sandevgo/tastybot/internal/core"
)

// ErrNoMatch is the resolver's NotFound outcome: nothing in the candidate
// set can be what the user meant.
var ErrNoMatch = errors.New("no matching recipe")

// MatchRule names which priority rule produced a resolution.
type MatchRule string

const (
	MatchOrdinal   MatchRule = "ordinal"
	MatchExact     MatchRule = "exact"
	MatchSubstring MatchRule = "substring"
	MatchFuzzy     MatchRule = "fuzzy"
	MatchFallback  MatchRule = "fallback"
)

// fuzzyThreshold is the minimum word-overlap score for a fuzzy match.
const fuzzyThreshold = 0.5

// Resolution is a successful reference lookup. LowConfidence marks the
// top-ranked fallback, which callers must not treat as a firm match.
type Resolution struct {
	Match         core.RecipeMatch
	Rule          MatchRule
	LowConfidence bool
}

// Resolve maps free-text reference ("the first one", a partial title) onto a
// candidate recipe. Rules are tried in strict priority order and the first
// success wins. Pure function: identical inputs always resolve identically.
func Resolve(reference string, candidates core.ResultSet) (Resolution, error) {
	if len(candidates) == 0 {
		return Resolution{}, ErrNoMatch
	}

	ref := strings.ToLower(strings.TrimSpace(reference))
	if ref == "" {
		return Resolution{}, ErrNoMatch
	}

	if n, ok := parseOrdinal(ref); ok {
		if n < 1 || n > len(candidates) {
			return Resolution{}, ErrNoMatch
		}
		return Resolution{Match: candidates[n-1], Rule: MatchOrdinal}, nil
	}

	if match, ok := candidates.FindByTitle(ref); ok {
		return Resolution{Match: match, Rule: MatchExact}, nil
	}

	if match, ok := substringMatch(ref, candidates); ok {
		return Resolution{Match: match, Rule: MatchSubstring}, nil
	}

	if match, ok := fuzzyMatch(ref, candidates); ok {
		return Resolution{Match: match, Rule: MatchFuzzy}, nil
	}

	return Resolution{Match: candidates[0], Rule: MatchFallback, LowConfidence: true}, nil
}

var (
	ordinalWordRe  = regexp.MustCompile(`\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\b`)
	ordinalDigitRe = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\b`)
	positionRe     = regexp.MustCompile(`\b(?:number|option|recipe|no\.?)\s*(\d+)\b`)
	bareNumberRe   = regexp.MustCompile(`^\s*(\d+)\s*$`)
)

var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// parseOrdinal recognizes list-position references in already-lowercased
// text. "the last one" is not an ordinal; it needs the list length, which
// rule 1 deliberately does not look at beyond bounds checking.
func parseOrdinal(ref string) (int, bool) {
	if m := ordinalWordRe.FindStringSubmatch(ref); m != nil {
		return ordinalWords[m[1]], true
	}
	if m := ordinalDigitRe.FindStringSubmatch(ref); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	if m := positionRe.FindStringSubmatch(ref); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	if m := bareNumberRe.FindStringSubmatch(ref); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	return 0, false
}

// substringMatch accepts a candidate when the reference contains the title
// or the title contains the reference. The longest shared text wins; rank
// breaks ties via strict greater-than.
func substringMatch(ref string, candidates core.ResultSet) (core.RecipeMatch, bool) {
	const minOverlap = 4 // short fragments like "the" match everything

	best := -1
	bestOverlap := 0
	for i, c := range candidates {
		title := strings.ToLower(strings.TrimSpace(c.Title))
		if title == "" {
			continue
		}

		var overlap int
		switch {
		case strings.Contains(title, ref):
			overlap = len(ref)
		case strings.Contains(ref, title):
			overlap = len(title)
		default:
			continue
		}

		if overlap < minOverlap {
			continue
		}
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}

	if best < 0 {
		return core.RecipeMatch{}, false
	}
	return candidates[best], true
}

// fuzzyMatch scores each title by shared words over the smaller word set and
// accepts the best score at or above the threshold, earlier rank winning ties.
func fuzzyMatch(ref string, candidates core.ResultSet) (core.RecipeMatch, bool) {
	refWords := tokenize(ref)
	if len(refWords) == 0 {
		return core.RecipeMatch{}, false
	}

	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		titleWords := tokenize(strings.ToLower(c.Title))
		if len(titleWords) == 0 {
			continue
		}

		shared := 0
		for w := range refWords {
			if _, ok := titleWords[w]; ok {
				shared++
			}
		}

		smaller := len(refWords)
		if len(titleWords) < smaller {
			smaller = len(titleWords)
		}

		score := float64(shared) / float64(smaller)
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 || bestScore < fuzzyThreshold {
		return core.RecipeMatch{}, false
	}
	return candidates[best], true
}

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(s, -1) {
		words[w] = struct{}{}
	}
	return words
}
