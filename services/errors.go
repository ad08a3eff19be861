package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pricing and cart layer.
var (
	// ErrMissingRequiredSelection is returned when a required choice group
	// has no selection (or more than one) on a cart line.
	ErrMissingRequiredSelection = errors.New("missing required selection")

	// ErrInvalidSelectionScope is returned when a selected choice does not
	// belong to the menu item or its category.
	ErrInvalidSelectionScope = errors.New("selection does not belong to this item")

	// ErrEmptyCart is returned when pricing or checkout is attempted on an
	// empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrItemUnavailable is returned when an unavailable menu item is added
	// to a cart.
	ErrItemUnavailable = errors.New("menu item is not available")

	// ErrInsufficientPoints is returned by the ledger when a spend would
	// push the balance negative.
	ErrInsufficientPoints = errors.New("insufficient points balance")

	// ErrInvalidTransition is returned when a checkout method is called in
	// a state that does not allow it.
	ErrInvalidTransition = errors.New("operation not allowed in current checkout state")

	// ErrCheckoutFinished is returned when a finished (done or failed)
	// checkout receives further calls.
	ErrCheckoutFinished = errors.New("checkout already finished")
)

// ValidationError is a recoverable field-level error: the checkout state is
// unchanged and the customer fixes the form and resubmits.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PaymentError is a retryable card-capture failure. No order or ledger record
// exists; the customer may resubmit card details.
type PaymentError struct {
	Reason string
	Err    error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// SettlementError is the one escalation-worthy failure: the customer has been
// charged but the order record could not be created. It retains the payment
// reference id for manual reconciliation and must never be presented as a
// plain validation error.
type SettlementError struct {
	PaymentIntentID string
	Err             error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("payment succeeded but order could not be finalized (payment ref %s): %v",
		e.PaymentIntentID, e.Err)
}

func (e *SettlementError) Unwrap() error { return e.Err }
