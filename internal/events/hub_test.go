package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHub_RoutesByUser(t *testing.T) {
	h := NewHub()
	a := h.Subscribe("alice")
	b := h.Subscribe("bob")

	h.Publish("alice", Event{Kind: KindAlert, Data: "hi"})

	select {
	case ev := <-a.C:
		if ev.Kind != KindAlert || ev.At.IsZero() {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("alice got nothing")
	}
	select {
	case ev := <-b.C:
		t.Errorf("bob received %+v", ev)
	default:
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("u")
	for i := 0; i < bufferSize*2; i++ {
		h.Publish("u", Event{Kind: KindPointsEarned})
	}
	if len(s.C) != bufferSize {
		t.Errorf("buffered = %d, want %d", len(s.C), bufferSize)
	}
}

func TestHub_UnsubscribeTwice(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("u")
	h.Unsubscribe(s)
	h.Unsubscribe(s)
	if h.Subscribers("u") != 0 {
		t.Error("subscription still registered")
	}
	if _, ok := <-s.C; ok {
		t.Error("channel not closed")
	}
	h.Publish("u", Event{Kind: KindAlert})
}

func TestServeWS_StreamsEvents(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, "alice")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// Wait for the server side to register before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers("alice") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.Publish("alice", Event{Kind: KindFastingCompleted, Data: map[string]any{"durationHours": 16}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Kind Kind           `json:"kind"`
		Data map[string]any `json:"data"`
	}
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Kind != KindFastingCompleted || got.Data["durationHours"] != 16.0 {
		t.Errorf("event = %+v", got)
	}
}
