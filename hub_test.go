package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// echoHubServer upgrades connections and registers them with the hub under
// the session code and client id from the query string.
func echoHubServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.register <- &Client{
			conn:        conn,
			clientID:    r.URL.Query().Get("id"),
			sessionCode: r.URL.Query().Get("code"),
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialHub(t *testing.T, srv *httptest.Server, code, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?code=" + code + "&id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		got := len(h.clients)
		h.mu.RUnlock()
		if got == n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients", n)
}

func TestBroadcastScopedToSession(t *testing.T) {
	h := newHub()
	go h.run()
	defer h.stop()
	srv := echoHubServer(t, h)

	connA := dialHub(t, srv, "AAAAAA", "ann")
	connB := dialHub(t, srv, "BBBBBB", "ben")
	waitForClients(t, h, 2)

	h.broadcastToSession("AAAAAA", []byte(`{"type":"state"}`))

	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := connA.ReadMessage()
	if err != nil {
		t.Fatalf("session A read: %v", err)
	}
	if string(data) != `{"type":"state"}` {
		t.Fatalf("session A got %q", data)
	}

	// The other session must see nothing.
	connB.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, data, err := connB.ReadMessage(); err == nil {
		t.Fatalf("session B unexpectedly got %q", data)
	}
}

func TestSendToClientReachesAllTheirConnections(t *testing.T) {
	h := newHub()
	go h.run()
	defer h.stop()
	srv := echoHubServer(t, h)

	ann1 := dialHub(t, srv, "AAAAAA", "ann")
	ann2 := dialHub(t, srv, "AAAAAA", "ann")
	ben := dialHub(t, srv, "AAAAAA", "ben")
	waitForClients(t, h, 3)

	h.sendToClient("ann", []byte(`{"type":"error"}`))

	for i, conn := range []*websocket.Conn{ann1, ann2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, data, err := conn.ReadMessage(); err != nil || string(data) != `{"type":"error"}` {
			t.Fatalf("ann connection %d: %q, %v", i, data, err)
		}
	}
	ben.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, data, err := ben.ReadMessage(); err == nil {
		t.Fatalf("ben unexpectedly got %q", data)
	}
}

func TestStopWaitsForFreshlyStartedRun(t *testing.T) {
	// stop must block until the run goroutine has exited, even when it is
	// called before run has been scheduled at all.
	h := newHub()
	go h.run()
	h.stop()

	// With run gone, queueing a broadcast must return instead of blocking.
	h.broadcastToSession("AAAAAA", []byte(`{}`))
}

func TestUnregisterDropsConnection(t *testing.T) {
	h := newHub()
	go h.run()
	defer h.stop()
	srv := echoHubServer(t, h)

	dialHub(t, srv, "AAAAAA", "ann")
	waitForClients(t, h, 1)

	h.mu.RLock()
	var raw *websocket.Conn
	for c := range h.clients {
		raw = c
	}
	h.mu.RUnlock()

	h.unregister <- raw
	waitForClients(t, h, 0)

	// Broadcasting to an empty session must not block or panic.
	h.broadcastToSession("AAAAAA", []byte(`{}`))
}
