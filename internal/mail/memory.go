package mail

import (
	"context"
	"sync"
)

// Sent records one dispatched message for inspection in tests.
type Sent struct {
	Kind string // "verification" or "password_reset"
	To   string
	Link string
	Name string
}

// MemoryMailer records messages instead of sending them. Used in tests and
// when no SMTP configuration is present.
type MemoryMailer struct {
	mu       sync.Mutex
	messages []Sent
	// FailWith, when set, is returned from every send.
	FailWith error
}

func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

func (m *MemoryMailer) SendVerificationEmail(_ context.Context, to, link, name string) error {
	return m.record(Sent{Kind: "verification", To: to, Link: link, Name: name})
}

func (m *MemoryMailer) SendPasswordResetEmail(_ context.Context, to, link, name string) error {
	return m.record(Sent{Kind: "password_reset", To: to, Link: link, Name: name})
}

func (m *MemoryMailer) record(s Sent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.messages = append(m.messages, s)
	return nil
}

// Messages returns a copy of everything recorded so far.
func (m *MemoryMailer) Messages() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sent, len(m.messages))
	copy(out, m.messages)
	return out
}
