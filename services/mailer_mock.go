package services

import (
	"context"
	"errors"
	"sync"
)

// MockMailer records sent email for tests and can be told to fail
type MockMailer struct {
	mu   sync.Mutex
	sent []Email
	Fail bool
}

// NewMockMailer creates a new mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("mock mailer failure")
	}
	m.sent = append(m.sent, email)
	return nil
}

// Sent returns a copy of every delivered email
func (m *MockMailer) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}
