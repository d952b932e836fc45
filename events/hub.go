package events

import (
	"slices"
	"sync"
	"time"

	"github.com/biosecret/go-todo/models"
)

const (
	TodoCreated = "todo.created"
	TodoUpdated = "todo.updated"
	TodoDeleted = "todo.deleted"
)

// Event mô tả một thay đổi trên todo của một user.
type Event struct {
	Type   string       `json:"type"`
	UserID int64        `json:"user_id"`
	TodoID int64        `json:"todo_id"`
	Todo   *models.Todo `json:"todo,omitempty"`
	At     time.Time    `json:"at"`
}

// Publisher nhận event; Publish không được block request.
type Publisher interface {
	Publish(ev Event)
}

// Fanout gửi event tới nhiều publisher.
type Fanout []Publisher

func (f Fanout) Publish(ev Event) {
	for _, p := range f {
		p.Publish(ev)
	}
}

// Subscription là một listener nhận event của đúng một user.
type Subscription struct {
	userID int64
	ch     chan Event
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Hub phát event tới các subscriber trong process, theo user.
type Hub struct {
	mu     sync.Mutex
	subs   []*Subscription
	size   int
	closed bool
}

// NewHub tạo Hub; mỗi subscription có buffer size event.
func NewHub(size int) *Hub {
	if size <= 0 {
		size = 16
	}
	return &Hub{size: size}
}

func (h *Hub) Subscribe(userID int64) *Subscription {
	s := &Subscription{userID: userID, ch: make(chan Event, h.size)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(s.ch)
		return s
	}
	h.subs = append(h.subs, s)
	return s
}

// Unsubscribe gỡ s và đóng channel của nó. Gọi nhiều lần vẫn an toàn.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := slices.Index(h.subs, s)
	if idx == -1 {
		return
	}
	h.subs[idx] = nil
	h.subs = slices.Delete(h.subs, idx, idx+1)
	close(s.ch)
}

// Publish bỏ event với subscriber đã đầy buffer.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range h.subs {
		if s.userID != ev.UserID {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Len trả về số subscription đang mở.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close đóng mọi subscription để các stream SSE kết thúc khi tắt server.
// Event còn trong buffer vẫn được đọc hết trước khi channel báo đóng.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, s := range h.subs {
		close(s.ch)
	}
	h.subs = nil
}
