package registry

import (
	"regexp"
	"slices"
	"strings"
)

// Matcher is a text predicate that can also count its occurrences.
// Implementations must be safe for concurrent use.
type Matcher interface {
	Match(text string) bool
	Count(text string) int
	String() string
}

// WeightedPattern pairs a matcher with its relevance weight.
type WeightedPattern struct {
	Matcher Matcher
	Weight  float64
}

type regexMatcher struct {
	re *regexp.Regexp
}

// Regex compiles a case-insensitive matcher. It panics on an invalid
// expression; patterns are program constants.
func Regex(expr string) Matcher {
	return regexMatcher{re: regexp.MustCompile(`(?i)` + expr)}
}

// Stems matches any of the phrases at the start of a word, so "wave" also
// matches "waves" but "current" never matches inside "recurrent".
func Stems(phrases ...string) Matcher {
	return Regex(`\b(?:` + alternation(phrases) + `)`)
}

// Words matches any of the phrases as whole words.
func Words(phrases ...string) Matcher {
	return Regex(`\b(?:` + alternation(phrases) + `)\b`)
}

func (m regexMatcher) Match(text string) bool { return m.re.MatchString(text) }

func (m regexMatcher) Count(text string) int { return len(m.re.FindAllStringIndex(text, -1)) }

func (m regexMatcher) String() string { return m.re.String() }

// alternation quotes phrases, longest first so "high water" wins over
// "high" at the same position. Spaces match any run of whitespace.
func alternation(phrases []string) string {
	sorted := slices.Clone(phrases)
	slices.SortStableFunc(sorted, func(a, b string) int { return len(b) - len(a) })
	quoted := make([]string, len(sorted))
	for i, p := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return strings.Join(quoted, "|")
}

// SubIntent is an unweighted, first-match-wins rule inside a domain.
type SubIntent struct {
	Name     string
	Keywords []string // any substring hit selects the sub-intent
	Excludes []string // any substring hit vetoes it
	Response string
}

// Matches reports whether the normalized text selects this sub-intent.
func (s SubIntent) Matches(normalized string) bool {
	for _, ex := range s.Excludes {
		if strings.Contains(normalized, ex) {
			return false
		}
	}
	for _, kw := range s.Keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
