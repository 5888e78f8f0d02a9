// Package notify collects the one-line messages shown to the user.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const defaultCapacity = 50

// Notification is a single user-facing message.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Hub buffers recent notifications until the UI drains them and fans them out
// to subscribers.
type Hub struct {
	mu       sync.Mutex
	pending  []Notification
	capacity int
	subs     map[int]chan Notification
	nextSub  int
	logger   *slog.Logger
	now      func() time.Time
}

// NewHub constructs a hub keeping at most defaultCapacity undrained messages.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		capacity: defaultCapacity,
		subs:     make(map[int]chan Notification),
		logger:   logger,
		now:      time.Now,
	}
}

func (h *Hub) Info(message string)    { h.publish(LevelInfo, message) }
func (h *Hub) Success(message string) { h.publish(LevelSuccess, message) }
func (h *Hub) Error(message string)   { h.publish(LevelError, message) }

func (h *Hub) publish(level Level, message string) {
	n := Notification{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: h.now(),
	}

	h.mu.Lock()
	h.pending = append(h.pending, n)
	if over := len(h.pending) - h.capacity; over > 0 {
		h.pending = append([]Notification(nil), h.pending[over:]...)
	}
	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
	h.mu.Unlock()

	h.logger.Info("notification", slog.String("level", string(level)), slog.String("message", message))
}

// Drain returns the buffered notifications, oldest first, and empties the buffer.
func (h *Hub) Drain() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pending
	h.pending = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// Subscribe returns a channel receiving every later notification. Messages are
// dropped for a subscriber whose buffer is full. cancel closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan Notification, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Notification, buffer)

	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
