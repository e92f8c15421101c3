package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aquarium/internal/sim"
)

func newTestHub(t *testing.T, fish int) *Hub {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.FishCount = fish
	cfg.Seed = 1
	s, err := sim.New(cfg)
	require.NoError(t, err)
	return NewHub(s, 20*time.Millisecond, zap.NewNop())
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame Frame
	require.NoError(t, json.Unmarshal(payload, &frame))
	return frame
}

func TestHubBroadcastsFrames(t *testing.T) {
	hub := newTestHub(t, 5)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()

	conn := dial(t, srv)
	frame := readFrame(t, conn)
	assert.Equal(t, "state", frame.Type)
	assert.Len(t, frame.Fish, 5)
	for i, f := range frame.Fish {
		assert.Equal(t, i, f.ID)
		assert.InDelta(t, f.Speed, 0.4, 0.16, "speed stays within configured bounds")
	}

	// frames keep coming and the tick counter advances
	next := readFrame(t, conn)
	assert.Greater(t, next.Tick, frame.Tick)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not stop on cancel")
	}
}

func TestHubServesMultipleViewers(t *testing.T) {
	hub := newTestHub(t, 3)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()

	a := dial(t, srv)
	b := dial(t, srv)

	fa := readFrame(t, a)
	fb := readFrame(t, b)
	assert.Len(t, fa.Fish, 3)
	assert.Len(t, fb.Fish, 3)

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 },
		time.Second, 10*time.Millisecond)

	a.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubLateViewerGetsLastFrame(t *testing.T) {
	hub := newTestHub(t, 2)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.Run(ctx) }()

	// let a few ticks pass before anyone connects
	time.Sleep(100 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	// the loop is stopped, so only the replayed frame can arrive
	conn := dial(t, srv)
	frame := readFrame(t, conn)
	assert.Equal(t, "state", frame.Type)
	assert.NotZero(t, frame.Tick)
}
