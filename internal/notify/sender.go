package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrProvider wraps any failure reported by the SMS provider.
var ErrProvider = errors.New("notify: sms provider error")

// Receipt identifies a message accepted by the provider.
type Receipt struct {
	SID string `json:"sid"`
}

// Sender delivers one SMS. to is already normalized.
type Sender interface {
	Send(ctx context.Context, to, body string) (Receipt, error)
}

// MemorySender records messages instead of sending them. Useful for tests and local runs.
type MemorySender struct {
	mu   sync.Mutex
	sent []Message
	// Err, when set, is returned (wrapped in ErrProvider) by every Send.
	Err error
}

type Message struct {
	To   string
	Body string
}

func NewMemorySender() *MemorySender { return &MemorySender{} }

func (s *MemorySender) Send(ctx context.Context, to, body string) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrProvider, s.Err)
	}
	s.sent = append(s.sent, Message{To: to, Body: body})
	return Receipt{SID: fmt.Sprintf("SM%032d", len(s.sent))}, nil
}

func (s *MemorySender) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
