package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/factory-app/utils"
)

// Event types
const (
	EventMachineUpdate  = "machine_update"
	EventOrderUpdate    = "order_update"
	EventPlanningUpdate = "planning_update"
	EventWeekDigest     = "week_digest"
	EventDashboard      = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// writeWait bounds each write so a stalled client cannot hold up a broadcast.
const writeWait = 5 * time.Second

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans dashboard events out to every connected client.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]string // conn -> view (planning, machines, ...)
}

func New() *Hub {
	return &Hub{clients: make(map[Conn]string)}
}

func (h *Hub) Register(conn Conn, view string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = view
}

func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Publish(event string, data interface{}) {
	h.Broadcast(Message{Event: event, Data: data})
}

// Broadcast writes msg to all clients; a client whose write fails is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling %s message: %v", msg.Event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, view := range h.clients {
		err := conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, data)
		}
		if err != nil {
			utils.InfoLogger.Warnf("Dropping %s client after write error: %v", view, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	utils.InfoLogger.Debugf("Broadcast %s to %d clients", msg.Event, len(h.clients))
}
