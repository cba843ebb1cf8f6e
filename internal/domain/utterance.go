package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Utterance is one line of user text, kept in raw and normalized form.
type Utterance struct {
	Raw        string
	Normalized string
}

// NewUtterance normalizes raw text: NFKC, trimmed, lower-cased.
func NewUtterance(raw string) Utterance {
	normalized := norm.NFKC.String(raw)
	normalized = strings.TrimSpace(normalized)
	// cases.Caser is stateful, so each call gets its own.
	normalized = cases.Lower(language.Und).String(normalized)
	return Utterance{Raw: raw, Normalized: normalized}
}

// Empty reports whether the utterance has no content after normalization.
func (u Utterance) Empty() bool {
	return u.Normalized == ""
}
