package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func startFeed(t *testing.T, allowedOrigins ...string) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	go hub.Run()

	router := gin.New()
	router.GET("/ws", NewHandler(hub, allowedOrigins, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFeedDeliversToMatchingSubscribers(t *testing.T) {
	hub, srv := startFeed(t)

	all := dial(t, srv, "")
	one := dial(t, srv, "?eventId=6f1c2a7e-1111-4222-8333-444455556666")
	waitForClients(t, hub, 2)

	hub.Publish(TypeRSVPToggled, "6f1c2a7e-1111-4222-8333-444455556666", map[string]int{"attendeeCount": 1})

	for _, conn := range []*websocket.Conn{all, one} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type != TypeRSVPToggled || msg.EventID != "6f1c2a7e-1111-4222-8333-444455556666" {
			t.Fatalf("unexpected message %+v", msg)
		}
	}

	// A message for another event only reaches the unfiltered client.
	hub.Publish(TypeEventCreated, "00000000-0000-4000-8000-000000000001", nil)

	all.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := all.ReadMessage(); err != nil {
		t.Fatalf("unfiltered client read: %v", err)
	}

	one.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := one.ReadMessage(); err == nil {
		t.Fatal("filtered client received a message for another event")
	}
}

func TestFeedChecksOrigin(t *testing.T) {
	hub, srv := startFeed(t, "http://localhost:5173/")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://LOCALHOST:5173"}})
	if err != nil {
		t.Fatalf("dial from allowed origin: %v", err)
	}
	conn.Close()

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	if err == nil {
		t.Fatal("dial from foreign origin succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign origin response = %+v, want 403", resp)
	}

	// Non-browser clients send no Origin header
	dial(t, srv, "")
	waitForClients(t, hub, 1)
}

func TestUpgraderAllowsAnyOriginWhenUnrestricted(t *testing.T) {
	for _, origins := range [][]string{nil, {"*"}} {
		u := newUpgrader(origins)
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Header.Set("Origin", "https://anywhere.example")
		if !u.CheckOrigin(r) {
			t.Fatalf("origins %v rejected an arbitrary origin", origins)
		}
	}
}

func TestFeedRejectsMalformedEventID(t *testing.T) {
	_, srv := startFeed(t)

	resp, err := http.Get(srv.URL + "/ws?eventId=nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(TypeEventCreated, "x", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Stop")
	}
}
