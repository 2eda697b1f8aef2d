package websocketPkg

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	subscriberBuffer = 32
	pingInterval     = 30 * time.Second
	writeTimeout     = 5 * time.Second
)

// IHub fans feed events out to websocket subscribers. A subscriber that
// falls behind loses events instead of blocking publishers.
type IHub interface {
	Subscribe() (string, <-chan []byte)
	Unsubscribe(id string)
	Publish(v interface{})
	Subscribers() int
	Serve(conn *websocket.Conn)
	Close()
}

type hub struct {
	log *logrus.Logger

	mu          sync.RWMutex
	subscribers map[string]chan []byte
	closed      bool
}

func NewHub(log *logrus.Logger) IHub {
	return &hub{
		log:         log,
		subscribers: make(map[string]chan []byte),
	}
}

func (h *hub) Subscribe() (string, <-chan []byte) {
	id := uuid.NewString()
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return id, ch
	}
	h.subscribers[id] = ch
	return id, ch
}

func (h *hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(ch)
	}
}

func (h *hub) Publish(v interface{}) {
	payload, err := jsoniter.Marshal(v)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to encode feed event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- payload:
		default:
			h.log.WithFields(logrus.Fields{
				"subscriber": id,
			}).Warn("Feed subscriber is slow, dropping event")
		}
	}
}

func (h *hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
	h.closed = true
}

// Serve streams events to conn until the client goes away or the hub closes.
func (h *hub) Serve(conn *websocket.Conn) {
	id, events := h.Subscribe()
	defer h.Unsubscribe(id)

	h.log.WithFields(logrus.Fields{
		"subscriber": id,
		"remote":     conn.RemoteAddr().String(),
	}).Info("Feed subscriber connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.log.WithFields(logrus.Fields{
					"subscriber": id,
					"error":      err.Error(),
				}).Warn("Feed write failed, closing subscriber")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
