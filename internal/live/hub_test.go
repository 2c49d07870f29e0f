package live

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsReloads(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Notify(Event{Type: EventReload, Snapshot: &Snapshot{Fingerprint: "abc", Generation: "g1"}})

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != EventReload || msg.Fingerprint != "abc" || msg.Generation != "g1" {
		t.Errorf("message = %+v", msg)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHubWithHolderEvents(t *testing.T) {
	h, src := newDocsHolder(t)
	hub := NewHub(nil)
	h.Subscribe(hub.Notify)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	src.set([]byte("{"), "broken")
	if _, err := h.Reload(t.Context()); err == nil {
		t.Fatal("expected reload error")
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != EventError || msg.Error == "" || msg.Generation != "" {
		t.Errorf("message = %+v", msg)
	}
}

func TestMessageFor(t *testing.T) {
	snap := &Snapshot{Fingerprint: "f", Generation: "g"}
	msg := MessageFor(Event{Type: EventError, Snapshot: snap, Err: errors.New("boom")})
	if msg.Fingerprint != "f" || msg.Generation != "g" || msg.Error != "boom" {
		t.Errorf("MessageFor() = %+v", msg)
	}
}

func TestHubRejectsPlainHTTP(t *testing.T) {
	hub := NewHub(nil)
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest("GET", "/_docroutes/ws", nil))
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if hub.ClientCount() != 0 {
		t.Error("no client should be registered")
	}
}
