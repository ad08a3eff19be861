package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{OrderStatusPending, OrderStatusAccepted, true},
		{OrderStatusPending, OrderStatusDenied, true},
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusAccepted, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusDenied, OrderStatusAccepted, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{"bogus", OrderStatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidPaymentStatus(t *testing.T) {
	assert.True(t, ValidPaymentStatus(PaymentStatusPaid))
	assert.True(t, ValidPaymentStatus(PaymentStatusCashOnDelivery))
	assert.False(t, ValidPaymentStatus("refund_pending"))
}

func TestOrderSnapshotRoundTrip(t *testing.T) {
	order := Order{}
	lines := []LineSnapshot{
		{
			MenuItemID: 1,
			Name:       "Classic Burger",
			Quantity:   2,
			Price:      8.00,
			Options: []SnapshotOption{
				{ChoiceID: 102, Kind: ChoiceKindAddon, Name: "Extra cheese", PriceAdjustment: 1.00},
			},
		},
	}

	assert.NoError(t, order.SetSnapshot(lines))

	got, err := order.Snapshot()
	assert.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestOrderSnapshotEmptyMetadata(t *testing.T) {
	order := Order{}
	got, err := order.Snapshot()
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestOrderJSONInlinesItems(t *testing.T) {
	order := Order{OrderType: OrderTypePickup, Status: OrderStatusPending}
	assert.NoError(t, order.SetSnapshot([]LineSnapshot{{MenuItemID: 1, Name: "Fries", Quantity: 1, Price: 4.00}}))

	raw, err := json.Marshal(order)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &decoded))

	items, ok := decoded["items"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, items, 1)
	// The raw metadata string never leaks into the API shape.
	_, hasMetadata := decoded["metadata"]
	assert.False(t, hasMetadata)
}
