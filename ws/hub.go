package ws

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// HubInstance feeds the lane display boards: every successful ticket
// transition is pushed here and fanned out to all connected clients.
var HubInstance = NewHub()

func init() {
	go HubInstance.Run()
}

// Client represents one WebSocket connection.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub keeps the set of connected clients and broadcasts messages to
// all of them.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Publish marshals v and queues it for broadcast. Marshal failures are
// logged and dropped; a display update is never worth failing a
// request over.
func (h *Hub) Publish(v interface{}) {
	message, err := json.Marshal(v)
	if err != nil {
		log.Println("ws: failed to marshal broadcast message:", err)
		return
	}
	h.Broadcast <- message
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}
