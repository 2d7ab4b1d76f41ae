package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Editor message types
const (
	MsgDraftSaved MessageType = "draft_saved"
	MsgSaveFailed MessageType = "save_failed"
	MsgError      MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for editor sessions. Each session has
// at most one connection; events about saves are pushed to it.
type Hub struct {
	conns map[string]*Connection // sessionID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *SessionMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// SessionMessage is a message addressed to one editor session
type SessionMessage struct {
	SessionID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *SessionMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if existing, ok := h.conns[conn.SessionID]; ok {
				close(existing.Send)
			}
			h.conns[conn.SessionID] = conn
			h.mu.Unlock()
			log.Printf("Editor session %s connected", conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.SessionID]; ok && existing == conn {
				delete(h.conns, conn.SessionID)
				close(conn.Send)
				log.Printf("Editor session %s disconnected", conn.SessionID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.Printf("Failed to marshal ws message: %v", err)
				continue
			}
			h.mu.RLock()
			conn, ok := h.conns[msg.SessionID]
			h.mu.RUnlock()
			if !ok {
				continue
			}
			select {
			case conn.Send <- data:
			default:
				// slow consumer, drop the event rather than block the hub
				log.Printf("Dropping ws message for session %s", msg.SessionID)
			}
		}
	}
}

// Register adds a connection to the hub
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// NotifySession sends an event to one editor session. Implements the
// service Notifier interface.
func (h *Hub) NotifySession(sessionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal ws payload: %v", err)
		return
	}
	h.broadcast <- &SessionMessage{
		SessionID: sessionID,
		Message:   &Message{Type: MessageType(msgType), Payload: data},
	}
}
