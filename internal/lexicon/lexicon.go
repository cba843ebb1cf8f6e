// Package lexicon labels short social-media style texts with a sentiment and
// a hazard type using fixed keyword lists.
//
// Matching is plain substring containment on lower-cased text, so "wave"
// also hits "waves" and "warning" makes a post negative. Confidences are
// fixed per rule.
package lexicon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentiment is the overall tone of a text.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// HazardType classifies the hazard a text reports.
type HazardType string

const (
	HighWaves      HazardType = "highWaves"
	Flooding       HazardType = "flooding"
	Erosion        HazardType = "erosion"
	Storm          HazardType = "storm"
	Tsunami        HazardType = "tsunami"
	Pollution      HazardType = "pollution"
	StrongCurrents HazardType = "strongCurrents"
	Other          HazardType = "other"
)

// HazardTypes lists every hazard type, Other last.
func HazardTypes() []HazardType {
	return []HazardType{Tsunami, HighWaves, Flooding, Erosion, Storm, StrongCurrents, Pollution, Other}
}

// Analysis is the label set of one text. Confidences are percentages.
type Analysis struct {
	Sentiment           Sentiment  `json:"sentiment"`
	SentimentConfidence int        `json:"sentiment_confidence"`
	HazardType          HazardType `json:"hazard_type"`
	Confidence          int        `json:"confidence"`
	Keyword             string     `json:"keyword,omitempty"`
}

// IsHazard reports whether a hazard other than Other was found.
func (a Analysis) IsHazard() bool { return a.HazardType != Other }

var (
	positiveWords = []string{"beautiful", "good", "nice", "amazing", "wonderful", "great", "love", "enjoy", "calm"}
	negativeWords = []string{"danger", "warning", "emergency", "flood", "wave", "erosion", "storm", "problem", "issue", "careful"}
)

// hazardRule fires when any keyword is present and, if set, any qualifier
// is present as well.
type hazardRule struct {
	hazard     HazardType
	keywords   []string
	qualifiers []string
	confidence int
}

// Rules are checked in order; the first that fires wins.
var hazardRules = []hazardRule{
	{Tsunami, []string{"tsunami", "tidal wave"}, nil, 85},
	{HighWaves, []string{"wave"}, []string{"big", "high", "huge", "rough"}, 80},
	{HighWaves, []string{"rough sea", "swell"}, nil, 80},
	{Flooding, []string{"flood", "water rising", "water levels rising", "inundation"}, nil, 80},
	{Erosion, []string{"erosion"}, nil, 80},
	{StrongCurrents, []string{"rip current"}, nil, 75},
	{StrongCurrents, []string{"current"}, []string{"strong"}, 75},
	{Storm, []string{"storm", "cyclone", "warning"}, nil, 75},
	{Pollution, []string{"oil spill", "debris", "pollution", "sewage"}, nil, 70},
}

const otherConfidence = 40

var lower = cases.Lower(language.Und)

// Analyze labels text.
func Analyze(text string) Analysis {
	t := lower.String(text)
	a := Analysis{HazardType: Other, Confidence: otherConfidence}
	a.Sentiment, a.SentimentConfidence = sentiment(t)

	for _, r := range hazardRules {
		kw, ok := containsAny(t, r.keywords)
		if !ok {
			continue
		}
		if len(r.qualifiers) > 0 {
			if _, ok := containsAny(t, r.qualifiers); !ok {
				continue
			}
		}
		a.HazardType = r.hazard
		a.Confidence = r.confidence
		a.Keyword = kw
		break
	}
	return a
}

// sentiment prefers positive: "beautiful but dangerous waves" is positive.
func sentiment(t string) (Sentiment, int) {
	if _, ok := containsAny(t, positiveWords); ok {
		return Positive, 90
	}
	if _, ok := containsAny(t, negativeWords); ok {
		return Negative, 85
	}
	return Neutral, 60
}

func containsAny(t string, words []string) (string, bool) {
	for _, w := range words {
		if strings.Contains(t, w) {
			return w, true
		}
	}
	return "", false
}
