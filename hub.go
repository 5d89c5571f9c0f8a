package main

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WSMessage is a command frame from a client.
type WSMessage struct {
	Action      string `json:"action"`
	TargetID    string `json:"target_id,omitempty"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Client is one websocket connection bound to a participant in a session.
type Client struct {
	conn        *websocket.Conn
	clientID    string
	sessionCode string
	writeMu     sync.Mutex // Serialize writes to WebSocket (required by gorilla/websocket)
}

type sessionMessage struct {
	sessionCode string
	data        []byte
}

// Hub fans session snapshots out to every connection watching that
// session. Registration and broadcast go through channels into a single
// goroutine, same-session connections never see frames out of order.
type Hub struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan sessionMessage
	register   chan *Client
	unregister chan *websocket.Conn
	mu         sync.RWMutex
	done       chan struct{}
	wg         sync.WaitGroup
}

func newHub() *Hub {
	h := &Hub{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan sessionMessage),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn, 64),
		done:       make(chan struct{}),
	}
	// The run goroutine's slot is counted before run is ever scheduled.
	h.wg.Add(1)
	return h
}

// stop signals the hub goroutine to exit and waits for it to finish
func (h *Hub) stop() {
	close(h.done)
	h.wg.Wait()
}

// broadcastToSession queues a frame for every connection in a session.
func (h *Hub) broadcastToSession(code string, data []byte) {
	select {
	case h.broadcast <- sessionMessage{sessionCode: code, data: data}:
	case <-h.done:
	}
}

// sendToClient delivers a frame to every connection a participant holds.
func (h *Hub) sendToClient(clientID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.clientID == clientID {
			LogWSMessage("OUT", clientID, string(data))

			client.writeMu.Lock()
			err := client.conn.WriteMessage(websocket.TextMessage, data)
			client.writeMu.Unlock()

			if err != nil {
				log.Printf("WebSocket write error to client %s: %v", clientID, err)
			}
		}
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client connected (client %s, session %s). Total: %d", client.clientID, client.sessionCode, total)
			DebugLog("hub.register", "Client '%s' connected to session %s", client.clientID, client.sessionCode)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				DebugLog("hub.unregister", "Client '%s' disconnected from session %s", client.clientID, client.sessionCode)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected. Total: %d", total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn, client := range h.clients {
				if client.sessionCode != msg.sessionCode {
					continue
				}
				client.writeMu.Lock()
				err := conn.WriteMessage(websocket.TextMessage, msg.data)
				client.writeMu.Unlock()

				if err != nil {
					log.Printf("WebSocket write error: %v", err)
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()
			if len(dead) > 0 {
				h.mu.Lock()
				for _, conn := range dead {
					conn.Close()
					delete(h.clients, conn)
				}
				h.mu.Unlock()
			}
		}
	}
}
