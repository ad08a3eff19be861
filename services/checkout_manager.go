package services

import (
	"errors"
	"sync"
)

var ErrNoActiveCheckout = errors.New("no active checkout for this session")

// CheckoutManager tracks at most one in-flight checkout per browsing session.
// Starting a new checkout replaces any finished (done, failed, cancelled)
// one; an unfinished checkout must be cancelled first.
type CheckoutManager struct {
	mu        sync.Mutex
	checkouts map[string]*Checkout
}

func NewCheckoutManager() *CheckoutManager {
	return &CheckoutManager{checkouts: make(map[string]*Checkout)}
}

// Begin registers a fresh checkout for the session.
func (m *CheckoutManager) Begin(sessionID string, checkout *Checkout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.checkouts[sessionID]; ok {
		switch existing.State() {
		case StateDone, StateFailed, StateCancelled:
			// finished, safe to replace
		default:
			return errors.New("a checkout is already in progress for this session")
		}
	}
	m.checkouts[sessionID] = checkout
	return nil
}

// Get returns the session's checkout.
func (m *CheckoutManager) Get(sessionID string) (*Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	checkout, ok := m.checkouts[sessionID]
	if !ok {
		return nil, ErrNoActiveCheckout
	}
	return checkout, nil
}

// End drops the session's checkout, e.g. after the confirmation view is
// served.
func (m *CheckoutManager) End(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.checkouts, sessionID)
}
