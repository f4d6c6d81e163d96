package ws

import (
	"encoding/json"
	"sync"

	"hexcraft.ai/internal/protocol"
	"hexcraft.ai/internal/sim/world"
)

// Hub fans step reports out to observer connections and keeps a
// bounded backlog so reconnecting observers can catch up without a
// full replay.
type Hub struct {
	worldID string

	mu      sync.Mutex
	nextSub uint64
	subs    map[uint64]chan []byte

	backlog    []world.StepReport
	maxBacklog int
	height     uint64
}

func NewHub(worldID string, maxBacklog int) *Hub {
	if maxBacklog <= 0 {
		maxBacklog = 4096
	}
	return &Hub{
		worldID:    worldID,
		subs:       make(map[uint64]chan []byte),
		maxBacklog: maxBacklog,
	}
}

// Broadcast records the report in the backlog and pushes it to all
// subscribers. Slow subscribers lose messages rather than stall the
// caller; they can recover via a STEP_BATCH_REQ.
func (h *Hub) Broadcast(r world.StepReport) {
	b, err := json.Marshal(protocol.NewStep(h.worldID, r))
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.height = r.Height
	h.backlog = append(h.backlog, r)
	if len(h.backlog) > h.maxBacklog {
		h.backlog = h.backlog[len(h.backlog)-h.maxBacklog:]
	}
	for _, ch := range h.subs {
		select {
		case ch <- b:
		default:
		}
	}
}

func (h *Hub) Height() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.height
}

func (h *Hub) subscribe(buffer int) (uint64, chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSub++
	ch := make(chan []byte, buffer)
	h.subs[h.nextSub] = ch
	return h.nextSub, ch
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// reportsSince returns up to limit backlog reports with height greater
// than since, and the height the next request should start from.
func (h *Hub) reportsSince(since uint64, limit int) ([]world.StepReport, uint64) {
	if limit <= 0 || limit > 1024 {
		limit = 1024
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var out []world.StepReport
	for _, r := range h.backlog {
		if r.Height <= since {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	next := since
	if n := len(out); n > 0 {
		next = out[n-1].Height
	}
	return out, next
}
