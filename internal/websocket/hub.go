// package websocket fans progress-update events out to connected feed
// clients.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"bookshelf/pkg/models"
)

// FeedHub tracks connected clients and broadcasts every event received on
// its input channel. Slow clients are dropped rather than allowed to
// stall the broadcast.
type FeedHub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]string
	sendChans map[*websocket.Conn]chan []byte

	events     <-chan models.ProgressUpdate
	unregister chan *websocket.Conn
	logger     *log.Logger
}

func NewFeedHub(events <-chan models.ProgressUpdate, logger *log.Logger) *FeedHub {
	if logger == nil {
		logger = log.Default()
	}
	return &FeedHub{
		clients:    make(map[*websocket.Conn]string),
		sendChans:  make(map[*websocket.Conn]chan []byte),
		events:     events,
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

func (h *FeedHub) add(conn *websocket.Conn, username string, send chan []byte) {
	h.mu.Lock()
	h.clients[conn] = username
	h.sendChans[conn] = send
	h.mu.Unlock()
	h.logger.Info("feed client connected", "user", username)
}

func (h *FeedHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if username, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		if send, ok := h.sendChans[conn]; ok {
			close(send)
			delete(h.sendChans, conn)
		}
		conn.Close()
		h.logger.Info("feed client disconnected", "user", username)
	}
	h.mu.Unlock()
}

// Run consumes events until the event channel closes.
func (h *FeedHub) Run() {
	for {
		select {
		case conn := <-h.unregister:
			h.remove(conn)

		case evt, ok := <-h.events:
			if !ok {
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				h.logger.Error("marshal progress event", "err", err)
				continue
			}

			h.mu.Lock()
			for conn, send := range h.sendChans {
				select {
				case send <- data:
				default:
					if username, ok := h.clients[conn]; ok {
						h.logger.Warn("feed client send channel full, removing", "user", username)
					}
					delete(h.clients, conn)
					delete(h.sendChans, conn)
					close(send)
					conn.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}
