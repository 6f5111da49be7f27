package notify

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

const clientBuffer = 64

// Hub keeps the live Server-Sent Events subscribers of each user.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan []byte]struct{}
}

var _ ports.NotificationSink = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[chan []byte]struct{})}
}

// Subscribe registers a stream for userID. The returned func unregisters it
// and closes the channel.
func (h *Hub) Subscribe(userID string) (<-chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[chan []byte]struct{})
	}
	h.clients[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.clients[userID][ch]; !ok {
				return
			}
			delete(h.clients[userID], ch)
			if len(h.clients[userID]) == 0 {
				delete(h.clients, userID)
			}
			close(ch)
		})
	}
}

// Notify pushes n to the recipient's open streams. Slow clients drop messages.
func (h *Hub) Notify(_ context.Context, n domain.Notification) error {
	payload, err := json.Marshal(newStreamMessage(n))
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients[n.RecipientID] {
		select {
		case ch <- payload:
		default:
			zap.L().Debug("sse client buffer full", zap.String("recipient", n.RecipientID))
		}
	}
	return nil
}

// Subscribers reports how many streams userID has open.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close ends every stream.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for user, set := range h.clients {
		for ch := range set {
			close(ch)
		}
		delete(h.clients, user)
	}
}

type streamMessage struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   string            `json:"createdAt"`
}

func newStreamMessage(n domain.Notification) streamMessage {
	return streamMessage{
		ID:          n.ID,
		Type:        string(n.Type),
		Title:       n.Title,
		Description: n.Description,
		Metadata:    n.Metadata,
		CreatedAt:   n.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
