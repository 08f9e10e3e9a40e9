// Package ws pushes ticket activity to subscribed browser sessions so an
// open conversation updates without polling.
package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// EventType labels a hub payload.
type EventType string

const (
	EventMessageCreated EventType = "MessageCreated"
	EventTicketUpdated  EventType = "TicketUpdated"
)

// BroadcastMessage packages a payload for a ticket-scoped broadcast.
type BroadcastMessage struct {
	TicketID uint64
	Payload  []byte
}

// Hub manages active clients and ticket-scoped broadcasts.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan BroadcastMessage
}

// NewHub builds a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BroadcastMessage),
	}
}

// Run starts the hub loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.Subscribed(message.TicketID) {
					continue
				}
				select {
				case client.Send <- message.Payload:
				default:
					// Slow consumer; drop it rather than stall
					// everyone else.
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// BroadcastTicket sends a payload to every client watching the ticket.
func (h *Hub) BroadcastTicket(ticketID uint64, payload []byte) {
	h.broadcast <- BroadcastMessage{TicketID: ticketID, Payload: payload}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Client represents a websocket connection and the set of tickets it
// watches.
type Client struct {
	Conn *websocket.Conn
	Hub  *Hub
	Send chan []byte

	mu      sync.RWMutex
	tickets map[uint64]bool
}

// NewClient returns a client ready for registration.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		Conn:    conn,
		Hub:     hub,
		Send:    make(chan []byte, 256),
		tickets: make(map[uint64]bool),
	}
}

// Subscribe starts delivering the ticket's events to this client.
func (c *Client) Subscribe(ticketID uint64) {
	c.mu.Lock()
	c.tickets[ticketID] = true
	c.mu.Unlock()
}

// Unsubscribe stops delivery for the ticket.
func (c *Client) Unsubscribe(ticketID uint64) {
	c.mu.Lock()
	delete(c.tickets, ticketID)
	c.mu.Unlock()
}

// Subscribed reports whether the client watches the ticket.
func (c *Client) Subscribed(ticketID uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickets[ticketID]
}
