package lexicon

import (
	"math"
	"sync"
	"time"
)

// Sample is one labelled text with the time it was posted.
type Sample struct {
	At       time.Time
	Analysis Analysis
}

// SentimentCounts holds counts and rounded percentages per sentiment.
type SentimentCounts struct {
	Positive        int `json:"positive"`
	Negative        int `json:"negative"`
	Neutral         int `json:"neutral"`
	PositivePercent int `json:"positive_percent"`
	NegativePercent int `json:"negative_percent"`
	NeutralPercent  int `json:"neutral_percent"`
}

// ConfidenceStats summarizes hazard confidences.
type ConfidenceStats struct {
	Average int `json:"average"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// DayCount is one timeline bucket.
type DayCount struct {
	Date        string `json:"date"`
	Count       int    `json:"count"`
	HazardCount int    `json:"hazard_count"`
}

// Summary aggregates a set of samples.
type Summary struct {
	TotalPosts  int                `json:"total_posts"`
	HazardPosts int                `json:"hazard_posts"`
	Sentiment   SentimentCounts    `json:"sentiment"`
	Hazards     map[HazardType]int `json:"hazards"`
	Confidence  ConfidenceStats    `json:"confidence"`
	Timeline    []DayCount         `json:"timeline"`
}

// TimelineDays is the number of daily buckets in a Summary, ending today.
const TimelineDays = 7

// Summarize aggregates samples. Hazard distribution and confidence stats
// only count samples with a hazard; the timeline covers the TimelineDays
// UTC days ending on now.
func Summarize(samples []Sample, now time.Time) Summary {
	s := Summary{TotalPosts: len(samples), Hazards: make(map[HazardType]int)}

	var confSum int
	for _, smp := range samples {
		switch smp.Analysis.Sentiment {
		case Positive:
			s.Sentiment.Positive++
		case Negative:
			s.Sentiment.Negative++
		default:
			s.Sentiment.Neutral++
		}

		if !smp.Analysis.IsHazard() {
			continue
		}
		c := smp.Analysis.Confidence
		if s.HazardPosts == 0 || c < s.Confidence.Min {
			s.Confidence.Min = c
		}
		if c > s.Confidence.Max {
			s.Confidence.Max = c
		}
		confSum += c
		s.HazardPosts++
		s.Hazards[smp.Analysis.HazardType]++
	}

	if s.HazardPosts > 0 {
		s.Confidence.Average = int(math.Round(float64(confSum) / float64(s.HazardPosts)))
	}
	if total := s.TotalPosts; total > 0 {
		s.Sentiment.PositivePercent = percent(s.Sentiment.Positive, total)
		s.Sentiment.NegativePercent = percent(s.Sentiment.Negative, total)
		s.Sentiment.NeutralPercent = percent(s.Sentiment.Neutral, total)
	}
	s.Timeline = timeline(samples, now)
	return s
}

func percent(n, total int) int {
	return int(math.Round(float64(n) / float64(total) * 100))
}

func timeline(samples []Sample, now time.Time) []DayCount {
	today := now.UTC().Truncate(24 * time.Hour)
	first := today.AddDate(0, 0, -(TimelineDays - 1))

	days := make([]DayCount, TimelineDays)
	for i := range days {
		days[i].Date = first.AddDate(0, 0, i).Format(time.DateOnly)
	}
	for _, smp := range samples {
		day := smp.At.UTC().Truncate(24 * time.Hour)
		if day.Before(first) || day.After(today) {
			continue
		}
		i := int(day.Sub(first) / (24 * time.Hour))
		days[i].Count++
		if smp.Analysis.IsHazard() {
			days[i].HazardCount++
		}
	}
	return days
}

// Tracker keeps the most recent samples in a fixed-size ring. It is safe
// for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	samples []Sample
	next    int
	full    bool
}

// NewTracker creates a tracker holding up to capacity samples.
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = 1
	}
	return &Tracker{samples: make([]Sample, capacity)}
}

// Add records a sample, overwriting the oldest once full.
func (t *Tracker) Add(s Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples[t.next] = s
	t.next = (t.next + 1) % len(t.samples)
	if t.next == 0 {
		t.full = true
	}
}

// Snapshot returns the held samples, oldest first.
func (t *Tracker) Snapshot() []Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Sample(nil), t.samples[:t.next]...)
	}
	out := make([]Sample, 0, len(t.samples))
	out = append(out, t.samples[t.next:]...)
	return append(out, t.samples[:t.next]...)
}

// Summary summarizes the held samples.
func (t *Tracker) Summary(now time.Time) Summary {
	return Summarize(t.Snapshot(), now)
}
