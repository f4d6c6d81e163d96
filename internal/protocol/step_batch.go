package protocol

import "hexcraft.ai/internal/sim/world"

// STEP_BATCH_REQ (observer -> server)
type StepBatchReqMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id"`
	SinceHeight     uint64 `json:"since_height"`
	Limit           int    `json:"limit"`
}

// STEP_BATCH (server -> observer)
type StepBatchMsg struct {
	Type            string             `json:"type"`
	ProtocolVersion string             `json:"protocol_version"`
	ReqID           string             `json:"req_id"`
	WorldID         string             `json:"world_id,omitempty"`
	Reports         []world.StepReport `json:"reports"`
	NextHeight      uint64             `json:"next_height"`
}
