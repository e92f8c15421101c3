// Package server fans simulation snapshots out to websocket viewers.
// The hub's run loop is the only goroutine that touches the
// simulator, which satisfies the core's single-writer contract; the
// wire shape of a frame is owned here, not by the simulation.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"aquarium/internal/sim"
)

// Frame is one JSON message pushed to every connected viewer.
type Frame struct {
	Type string           `json:"type"`
	Tick uint64           `json:"tick"`
	Fish []sim.AgentState `json:"fish"`
}

// Hub owns the simulator and the set of connected viewers.
type Hub struct {
	sim  *sim.Simulator
	tick time.Duration
	log  *zap.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*websocket.Conn
	last    []byte
	ticks   uint64
}

// NewHub wires a simulator to a broadcast loop running at the given
// tick interval.
func NewHub(s *sim.Simulator, tick time.Duration, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		sim:  s,
		tick: tick,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[string]*websocket.Conn),
	}
}

// Run steps the simulation and broadcasts a frame on every tick until
// the context is canceled. The step size is the fixed tick interval,
// matching what the display frontends were tuned against.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()
	defer h.closeAll()

	dt := h.tick.Seconds()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.sim.Step(dt)
			h.broadcast()
		}
	}
}

// Handler upgrades a viewer connection, replays the latest frame and
// then drains incoming messages until the viewer goes away.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		id := uuid.NewString()
		h.register(id, conn)
		defer h.remove(id)
		h.log.Info("viewer connected",
			zap.String("client", id),
			zap.String("remote", conn.RemoteAddr().String()))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.log.Info("viewer disconnected", zap.String("client", id))
				return
			}
		}
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// register adds a viewer and, while still holding the write lock,
// sends it the most recent frame so a fresh tank shows up immediately.
func (h *Hub) register(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = conn
	if h.last != nil {
		if err := conn.WriteMessage(websocket.TextMessage, h.last); err != nil {
			h.log.Warn("initial frame failed", zap.String("client", id), zap.Error(err))
		}
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.clients[id]; ok {
		conn.Close()
		delete(h.clients, id)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		conn.Close()
		delete(h.clients, id)
	}
}

// broadcast marshals the current snapshot once and writes it to every
// viewer, dropping the ones that fail.
func (h *Hub) broadcast() {
	h.ticks++
	payload, err := json.Marshal(Frame{
		Type: "state",
		Tick: h.ticks,
		Fish: h.sim.Snapshot(),
	})
	if err != nil {
		h.log.Error("failed to marshal frame", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = payload
	for id, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Warn("dropping viewer", zap.String("client", id), zap.Error(err))
			conn.Close()
			delete(h.clients, id)
		}
	}
}
