package livefeed

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"fabric-backend/internal/metrics"
	"fabric-backend/internal/models"

	"github.com/gorilla/websocket"
)

// Event is pushed to every connected client when a job changes stage
type Event struct {
	Type      string       `json:"type"`
	JobID     string       `json:"jobId"`
	PartyName string       `json:"partyName"`
	Stage     models.Stage `json:"stage"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans stage changes out to websocket clients
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Event
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 64),
	}
}

// StageChanged queues an event. A full buffer drops it rather than stall the request.
func (h *Hub) StageChanged(job *models.Job) {
	ev := Event{
		Type:      "stage_changed",
		JobID:     job.JobID,
		PartyName: job.PartyName,
		Stage:     job.Stage,
		UpdatedAt: job.UpdatedAt,
	}
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("[Live] Broadcast buffer full, dropping event for %s", job.JobID)
	}
}

// Run delivers queued events until ctx is done, then disconnects everyone
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case ev := <-h.broadcast:
			h.send(ev)
		}
	}
}

func (h *Hub) send(ev Event) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client := range h.clients {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(ev); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
	metrics.LiveClients.Set(float64(len(h.clients)))
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
	metrics.LiveClients.Set(0)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and keeps the client registered until it disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Live] WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = true
	metrics.LiveClients.Set(float64(len(h.clients)))
	h.clientsMux.Unlock()

	// Clients never send anything meaningful; reading detects the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.clientsMux.Lock()
	delete(h.clients, conn)
	metrics.LiveClients.Set(float64(len(h.clients)))
	h.clientsMux.Unlock()
}
