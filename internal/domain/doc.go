// Package domain models the conversational state and labels of the OceanWatch
// safety assistant.
//
// # Topics
//
// Every answerable subject belongs to one topic cluster, identified by a
// [DomainID]:
//
//	ocean_hazards        tsunamis, flooding, waves, rip currents, storms, erosion, pollution, earthquakes
//	beach_tourism        beach safety, trip planning, conservation
//	coastal_communities  livelihoods, resilience, local knowledge
//	marine_tech          sensors, buoys, satellites, early warning systems
//	sea_routes           navigation, ports, maritime trade
//	disaster_management  preparedness, response, recovery
//
// # Dialogue Context
//
// A [DialogueContext] belongs to exactly one session. It carries the current
// topic (empty while the conversation is Fresh) and a capped history of user
// turns. The topic survives ambiguous follow-ups and only changes when another
// topic is matched. There is no reset intent; callers start a new session by
// creating a new context.
//
// Persisted contexts that cannot be decoded are replaced by a Fresh context
// ([ErrMalformedContext] is logged, never returned to the end user).
//
// # External Data
//
// [ExternalDataRecord] values are snapshots built on every fetch. Their
// LastUpdated field is the time of the call, not the time the upstream
// observation was made.
package domain
