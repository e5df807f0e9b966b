package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	hub     *Hub
	server  *httptest.Server
	clients chan *Client
}

func newTestServer(t *testing.T, sessionID uuid.UUID) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(ctx)
	go hub.Run()

	ts := &testServer{hub: hub, clients: make(chan *Client, 4)}
	upgrader := websocket.Upgrader{}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, sessionID)
		hub.Register(client)
		ts.clients <- client
		client.Run(ctx)
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) dial(t *testing.T) (*websocket.Conn, *Client) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	select {
	case client := <-ts.clients:
		return conn, client
	case <-time.After(2 * time.Second):
		t.Fatal("client was not registered")
		return nil, nil
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestHub_BroadcastToSession(t *testing.T) {
	sessionID := uuid.New()
	ts := newTestServer(t, sessionID)
	conn, _ := ts.dial(t)

	require.Eventually(t, func() bool { return ts.hub.Connected(sessionID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, ts.hub.BroadcastToSession(sessionID, "toast", map[string]string{"message": "hola"}))

	env := readEnvelope(t, conn)
	assert.Equal(t, "toast", env["type"])
	assert.Equal(t, map[string]any{"message": "hola"}, env["data"])
}

func TestClient_PublishOnlyToItself(t *testing.T) {
	sessionID := uuid.New()
	ts := newTestServer(t, sessionID)
	first, firstClient := ts.dial(t)
	second, _ := ts.dial(t)

	require.Eventually(t, func() bool { return ts.hub.Connected(sessionID) == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, firstClient.Publish("order_status", map[string]string{"estado": "EN_PROCESO"}))

	env := readEnvelope(t, first)
	assert.Equal(t, "order_status", env["type"])

	require.NoError(t, second.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := second.ReadMessage()
	assert.Error(t, err)
}

func TestClient_DoneOnDisconnect(t *testing.T) {
	sessionID := uuid.New()
	ts := newTestServer(t, sessionID)
	conn, client := ts.dial(t)

	require.NoError(t, conn.Close())

	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("client was not closed")
	}
	require.Eventually(t, func() bool { return ts.hub.Connected(sessionID) == 0 }, time.Second, 10*time.Millisecond)
}
