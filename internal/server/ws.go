package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/tiltcam/internal/log"
	"github.com/ayusman/tiltcam/internal/pose"
)

const writeTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FacesMessage is the payload sent to websocket clients for every frame.
type FacesMessage struct {
	Frame     int         `json:"frame"`
	Faces     []pose.Face `json:"faces"`
	Timestamp int64       `json:"timestamp"`
}

// FacesHandler broadcasts per-frame face poses via WebSocket.
type FacesHandler struct {
	log     *logrus.Logger
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewFacesHandler creates a FacesHandler with no clients.
func NewFacesHandler(logger *logrus.Logger) *FacesHandler {
	if logger == nil {
		logger = log.Discard()
	}
	return &FacesHandler{
		log:     logger,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FacesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade error")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.log.WithField("remote", r.RemoteAddr).Debug("faces client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		h.log.WithField("remote", r.RemoteAddr).Debug("faces client disconnected")
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *FacesHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends the faces of one frame to all connected clients. Clients
// that fail to keep up are dropped.
func (h *FacesHandler) Broadcast(index int, faces []pose.Face) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}

	if faces == nil {
		faces = []pose.Face{}
	}
	msg, err := json.Marshal(FacesMessage{
		Frame:     index,
		Faces:     faces,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		h.log.WithError(err).Error("failed to encode faces message")
		return
	}

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.WithError(err).Debug("dropping faces client")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
