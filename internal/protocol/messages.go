package protocol

import "hexcraft.ai/internal/sim/world"

// HELLO (observer -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ObserverName    string `json:"observer_name"`

	// SinceHeight asks the server to replay the backlog of step reports
	// starting after this height before streaming live ones.
	SinceHeight uint64 `json:"since_height,omitempty"`
}

// WELCOME (server -> observer)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	WorldID         string         `json:"world_id"`
	Height          uint64         `json:"height"`
	TickRateHz      float64        `json:"tick_rate_hz"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

// CatalogDigests pins the config files the world runs with; an
// observer replaying the step log must verify these before trusting
// its own recomputed digests.
type CatalogDigests struct {
	UnitsDigest      string `json:"units_digest"`
	StructuresDigest string `json:"structures_digest"`
	TuningDigest     string `json:"tuning_digest,omitempty"`
}

// STEP (server -> observer): one step report, streamed live.
type StepMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	WorldID         string `json:"world_id"`
	world.StepReport
}

// ERROR (server -> observer)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

func NewStep(worldID string, report world.StepReport) StepMsg {
	return StepMsg{
		Type:            TypeStep,
		ProtocolVersion: Version,
		WorldID:         worldID,
		StepReport:      report,
	}
}

func NewError(code, message string) ErrorMsg {
	return ErrorMsg{
		Type:            TypeError,
		ProtocolVersion: Version,
		Code:            code,
		Message:         message,
	}
}
