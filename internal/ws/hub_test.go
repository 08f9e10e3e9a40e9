package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func mustReceiveMessage(t *testing.T, ch <-chan []byte, timeout time.Duration) []byte {
	t.Helper()
	select {
	case payload := <-ch:
		return payload
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for websocket payload")
		return nil
	}
}

func mustNotReceiveMessage(t *testing.T, ch <-chan []byte, timeout time.Duration) {
	t.Helper()
	select {
	case payload := <-ch:
		t.Fatalf("expected no payload, got %q", string(payload))
	case <-time.After(timeout):
	}
}

func TestHubBroadcastFiltersByTicketSubscription(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	watcherA := NewClient(hub, nil)
	watcherA.Subscribe(101)

	watcherB := NewClient(hub, nil)
	watcherB.Subscribe(202)

	bystander := NewClient(hub, nil)

	hub.Register(watcherA)
	hub.Register(watcherB)
	hub.Register(bystander)

	t.Cleanup(func() {
		hub.Unregister(watcherA)
		hub.Unregister(watcherB)
		hub.Unregister(bystander)
	})

	time.Sleep(25 * time.Millisecond)

	hub.BroadcastTicket(101, []byte("ticket-101"))
	received := mustReceiveMessage(t, watcherA.Send, 200*time.Millisecond)
	if string(received) != "ticket-101" {
		t.Fatalf("expected ticket-101 payload, got %q", string(received))
	}
	mustNotReceiveMessage(t, watcherB.Send, 80*time.Millisecond)
	mustNotReceiveMessage(t, bystander.Send, 80*time.Millisecond)
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil)
	client.Subscribe(101)
	hub.Register(client)
	t.Cleanup(func() { hub.Unregister(client) })

	time.Sleep(25 * time.Millisecond)

	hub.BroadcastTicket(101, []byte("one"))
	mustReceiveMessage(t, client.Send, 200*time.Millisecond)

	client.Unsubscribe(101)
	hub.BroadcastTicket(101, []byte("two"))
	mustNotReceiveMessage(t, client.Send, 80*time.Millisecond)
}

func TestHandlerRejectsForeignOrigin(t *testing.T) {
	h := &Handler{Hub: NewHub()}

	req := httptest.NewRequest(http.MethodGet, "http://api.local/ws", nil)
	req.Host = "api.local"
	req.Header.Set("Origin", "http://evil.example")
	if h.originAllowed(req) {
		t.Fatal("foreign origin should be rejected")
	}

	req.Header.Set("Origin", "http://api.local")
	if !h.originAllowed(req) {
		t.Fatal("same-host origin should be allowed")
	}

	h.AllowedOrigins = []string{"app.hamrokrishi.example"}
	req.Header.Set("Origin", "https://app.hamrokrishi.example")
	if !h.originAllowed(req) {
		t.Fatal("configured origin should be allowed")
	}
}
