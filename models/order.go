package models

import (
	"encoding/json"
	"time"
)

// Order types
const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

// Order statuses. Admin moves a pending order to accepted/denied or through
// processing to completed; cancelled is reachable from any non-terminal state.
const (
	OrderStatusPending    = "pending"
	OrderStatusAccepted   = "accepted"
	OrderStatusDenied     = "denied"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending        = "pending"
	PaymentStatusPaid           = "paid"
	PaymentStatusFailed         = "failed"
	PaymentStatusCashOnDelivery = "cash_on_delivery"
)

type Order struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	UserID          *uint    `gorm:"index" json:"user_id,omitempty"`
	User            *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderType       string   `gorm:"type:varchar(20);not null" json:"order_type"`
	Status          string   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus   string   `gorm:"type:varchar(30);not null;default:'pending'" json:"payment_status"`
	PaymentIntentID *string  `gorm:"type:varchar(255)" json:"payment_intent_id,omitempty"`
	Subtotal        float64  `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee     float64  `gorm:"type:decimal(10,2);not null;default:0.00" json:"delivery_fee"`
	PointsDiscount  float64  `gorm:"type:decimal(10,2);not null;default:0.00" json:"points_discount"`
	OrderTotal      float64  `gorm:"type:decimal(10,2);not null" json:"order_total"`
	DeliveryAddress *string  `gorm:"type:text" json:"delivery_address,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	FullName        string   `gorm:"type:varchar(255)" json:"full_name"`
	Phone           string   `gorm:"type:varchar(30)" json:"phone"`
	Message         string   `gorm:"type:text" json:"message"`
	Metadata        string   `gorm:"type:text" json:"-"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// LineSnapshot is one frozen line item inside an order's metadata. Menu items
// can change or be deleted after ordering; the snapshot keeps placed orders
// reproducible.
type LineSnapshot struct {
	MenuItemID uint             `json:"menu_item_id"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	Price      float64          `json:"price"`
	Options    []SnapshotOption `json:"options,omitempty"`
}

// SnapshotOption is a selected customization frozen at order time.
type SnapshotOption struct {
	ChoiceID        uint    `json:"choice_id"`
	Kind            string  `json:"kind"`
	Name            string  `json:"name"`
	PriceAdjustment float64 `json:"price_adjustment"`
}

// SetSnapshot serializes the line snapshot into the metadata column.
func (o *Order) SetSnapshot(lines []LineSnapshot) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	o.Metadata = string(data)
	return nil
}

// Snapshot deserializes the stored metadata. Orders written before the
// snapshot existed return an empty slice.
func (o *Order) Snapshot() ([]LineSnapshot, error) {
	if o.Metadata == "" {
		return nil, nil
	}
	var lines []LineSnapshot
	if err := json.Unmarshal([]byte(o.Metadata), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// MarshalJSON inlines the parsed metadata snapshot so API consumers never see
// the raw JSON string.
func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	snapshot, err := o.Snapshot()
	if err != nil {
		snapshot = nil
	}
	return json.Marshal(struct {
		alias
		Items []LineSnapshot `json:"items"`
	}{alias(o), snapshot})
}

var orderStatusTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusAccepted, OrderStatusDenied, OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusAccepted:   {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransition reports whether an admin may move an order from one status to
// another. Terminal statuses (denied, completed, cancelled) have no exits.
func CanTransition(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidPaymentStatus reports whether a payment status value is known.
func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCashOnDelivery:
		return true
	}
	return false
}
