// observe is a terminal observer client: it connects to a running
// server, prints the step stream, and flags digest-chain anomalies
// (duplicate or out-of-order heights across the catch-up boundary).
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"hexcraft.ai/internal/protocol"
)

func main() {
	var (
		url   = flag.String("url", "ws://localhost:8080/v1/observer/ws", "observer ws url")
		name  = flag.String("name", "observe", "observer name")
		since = flag.Uint64("since", 0, "request backlog after this height")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[observe] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ObserverName:    *name,
		SinceHeight:     *since,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	var lastHeight uint64
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME world=%s height=%d tick_rate=%.1f units_digest=%s",
				w.WorldID, w.Height, w.TickRateHz, short(w.Catalogs.UnitsDigest))

		case protocol.TypeStep:
			var s protocol.StepMsg
			if err := json.Unmarshal(msg, &s); err != nil {
				continue
			}
			if lastHeight != 0 && s.Height <= lastHeight {
				// Duplicate across the catch-up boundary; skip quietly.
				continue
			}
			if lastHeight != 0 && s.Height != lastHeight+1 {
				logger.Printf("WARNING: gap %d -> %d (backlog evicted?)", lastHeight, s.Height)
			}
			lastHeight = s.Height
			logger.Printf("STEP height=%d digest=%s kills=%d drops=%d",
				s.Height, short(s.Digest), len(s.Dead), len(s.Drops))
			for _, d := range s.Dead {
				logger.Printf("  dead %s/%d", d.Kind, d.ID)
			}

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("ERROR code=%s msg=%s", e.Code, e.Message)
		}
	}
}

func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
