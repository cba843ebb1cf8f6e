package domain

import "time"

// DomainID identifies a topic cluster.
type DomainID string

const (
	OceanHazards       DomainID = "ocean_hazards"
	BeachTourism       DomainID = "beach_tourism"
	CoastalCommunities DomainID = "coastal_communities"
	MarineTech         DomainID = "marine_tech"
	SeaRoutes          DomainID = "sea_routes"
	DisasterManagement DomainID = "disaster_management"
)

// NoTopic is the CurrentTopic of a Fresh context.
const NoTopic DomainID = ""

// DefaultHistoryLimit bounds History when the caller does not configure a cap.
const DefaultHistoryLimit = 20

// Turn is one recorded user utterance.
type Turn struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Location is an optional user position attached to a session.
type Location struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat,omitempty"`
	Lon  float64 `json:"lon,omitempty"`
}

// DialogueContext is the mutable per-session state.
type DialogueContext struct {
	CurrentTopic DomainID  `json:"current_topic,omitempty"`
	History      []Turn    `json:"conversation_history"`
	UserLocation *Location `json:"user_location,omitempty"`
}

// NewDialogueContext returns a Fresh context.
func NewDialogueContext() *DialogueContext {
	return &DialogueContext{History: []Turn{}}
}

// Fresh reports whether no topic has been set yet.
func (c *DialogueContext) Fresh() bool {
	return c.CurrentTopic == NoTopic
}

// SetTopic moves the context into the Topic-Set state.
func (c *DialogueContext) SetTopic(id DomainID) {
	c.CurrentTopic = id
}

// Record appends a turn and drops the oldest turns beyond limit.
// A non-positive limit falls back to DefaultHistoryLimit.
func (c *DialogueContext) Record(text string, at time.Time, limit int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	c.History = append(c.History, Turn{Text: text, Timestamp: at})
	c.History = trimHistory(c.History, limit)
}

// Trim enforces the history cap on a context loaded from storage.
func (c *DialogueContext) Trim(limit int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	c.History = trimHistory(c.History, limit)
}

func trimHistory(h []Turn, limit int) []Turn {
	if len(h) <= limit {
		return h
	}
	// Copy so the dropped prefix can be collected.
	trimmed := make([]Turn, limit)
	copy(trimmed, h[len(h)-limit:])
	return trimmed
}
