package domain

import "time"

// Route names the router stage that produced a reply.
type Route string

const (
	RouteEmpty       Route = "empty"
	RouteOffTopic    Route = "off_topic"
	RouteGeneral     Route = "general"
	RouteQuestion    Route = "question"
	RouteScored      Route = "scored"
	RouteFollowUp    Route = "follow_up"
	RouteFallback    Route = "keyword_fallback"
	RouteDefault     Route = "default"
	RouteUnavailable Route = "unavailable"
)

// Intent names a general (domain-independent) intent.
type Intent string

const (
	IntentNone          Intent = ""
	IntentGreeting      Intent = "greeting"
	IntentFarewell      Intent = "farewell"
	IntentThanks        Intent = "thanks"
	IntentHelp          Intent = "help"
	IntentPlacesToAvoid Intent = "places_to_avoid"
	IntentPlacesToVisit Intent = "places_to_visit"
	IntentExternalData  Intent = "external_data"
)

// Reply is the engine's answer to one utterance, with the labels that
// produced it. Only Text is meant for end users.
type Reply struct {
	Text      string               `json:"reply"`
	Route     Route                `json:"route"`
	Intent    Intent               `json:"intent,omitempty"`
	Domain    DomainID             `json:"domain,omitempty"`
	SubIntent string               `json:"sub_intent,omitempty"`
	Scores    map[DomainID]float64 `json:"scores,omitempty"`
}

// DataType is an external hazard-status feed.
type DataType string

const (
	DataTsunami               DataType = "tsunami"
	DataWaves                 DataType = "waves"
	DataCurrents              DataType = "currents"
	DataSeaSurfaceTemperature DataType = "sea-surface-temperature"
)

// DataTypes lists the supported feeds in display order.
func DataTypes() []DataType {
	return []DataType{DataTsunami, DataWaves, DataCurrents, DataSeaSurfaceTemperature}
}

// Supported reports whether t is a known feed.
func (t DataType) Supported() bool {
	for _, known := range DataTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ExternalDataRecord is a live hazard-status snapshot.
// LastUpdated is stamped when the fetch happens.
type ExternalDataRecord struct {
	DataType    DataType  `json:"data_type"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	LastUpdated time.Time `json:"last_updated"`
}
