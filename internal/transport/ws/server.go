// Package ws serves the observer websocket endpoint: a read-only
// stream of step reports with backlog catch-up.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"hexcraft.ai/internal/protocol"
)

type Server struct {
	hub *Hub
	log *log.Logger

	tickRateHz float64
	catalogs   protocol.CatalogDigests

	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, tickRateHz float64, catalogs protocol.CatalogDigests, logger *log.Logger) *Server {
	return &Server{
		hub:        hub,
		log:        logger,
		tickRateHz: tickRateHz,
		catalogs:   catalogs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Printf("observer upgrade from %s failed: %v", r.RemoteAddr, err)
			return
		}
		defer conn.Close()

		hello, ok := s.handshake(conn, r.RemoteAddr)
		if !ok {
			return
		}

		subID, out := s.hub.subscribe(256)
		defer s.hub.unsubscribe(subID)

		// Backlog catch-up before live streaming. Reports broadcast while
		// we drain are buffered in out; duplicates are possible across the
		// boundary and observers must dedupe by height. The writer
		// goroutine is not running yet, so writing directly is safe here.
		if hello.SinceHeight > 0 {
			reports, _ := s.hub.reportsSince(hello.SinceHeight, 0)
			for _, rep := range reports {
				if err := writeJSON(conn, protocol.NewStep(s.hub.worldID, rep)); err != nil {
					return
				}
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Every frame after catch-up goes through the single writer
		// goroutine: live steps from out, batch responses from batches.
		// The reader loop never writes to the connection itself.
		batches := make(chan []byte, 8)

		go func() {
			write := func(b []byte) bool {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return false
				}
				return true
			}
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok || !write(b) {
						return
					}
				case b := <-batches:
					if !write(b) {
						return
					}
				}
			}
		}()

		// Reader loop: only STEP_BATCH_REQ is accepted after handshake.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeStepBatchReq {
				continue
			}
			var req protocol.StepBatchReqMsg
			if err := json.Unmarshal(msg, &req); err != nil {
				continue
			}
			if req.ProtocolVersion != protocol.Version {
				continue
			}
			reports, next := s.hub.reportsSince(req.SinceHeight, req.Limit)
			resp := protocol.StepBatchMsg{
				Type:            protocol.TypeStepBatch,
				ProtocolVersion: protocol.Version,
				ReqID:           req.ReqID,
				WorldID:         s.hub.worldID,
				Reports:         reports,
				NextHeight:      next,
			}
			b, err := json.Marshal(resp)
			if err != nil {
				continue
			}
			select {
			case batches <- b:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn, remote string) (protocol.HelloMsg, bool) {
	var hello protocol.HelloMsg

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		s.log.Printf("observer %s: no HELLO: %v", remote, err)
		return hello, false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		s.log.Printf("observer %s: rejected, first message not HELLO", remote)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return hello, false
	}
	if err := json.Unmarshal(msg, &hello); err != nil {
		return hello, false
	}
	if hello.ProtocolVersion != protocol.Version {
		s.log.Printf("observer %s: rejected protocol_version %q", remote, hello.ProtocolVersion)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return hello, false
	}
	if hello.ObserverName == "" {
		hello.ObserverName = "observer"
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		WorldID:         s.hub.worldID,
		Height:          s.hub.Height(),
		TickRateHz:      s.tickRateHz,
		Catalogs:        s.catalogs,
	}
	if err := writeJSON(conn, welcome); err != nil {
		return hello, false
	}
	s.log.Printf("observer %s connected as %q since_height=%d", remote, hello.ObserverName, hello.SinceHeight)
	return hello, true
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
