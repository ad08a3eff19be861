package services

import (
	"context"
	"fmt"
	"time"

	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

// Checkout states. Failed is terminal and reachable from AwaitingPayment and
// Settling; Cancelled covers customer abandonment before any side effect
// exists.
type CheckoutState string

const (
	StateSelectingOrderType CheckoutState = "selecting_order_type"
	StateCapturingContact   CheckoutState = "capturing_contact"
	StateAwaitingPayment    CheckoutState = "awaiting_payment"
	StateSettling           CheckoutState = "settling"
	StateDone               CheckoutState = "done"
	StateFailed             CheckoutState = "failed"
	StateCancelled          CheckoutState = "cancelled"
)

// PaymentResult is the gateway's answer to a card capture attempt.
type PaymentResult struct {
	Status      string
	ReferenceID string
}

// PaymentGateway is the hosted card-capture collaborator. Amounts are integer
// minor units (cents).
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountMinorUnits int64) (clientSecret string, err error)
	ConfirmCardPayment(ctx context.Context, clientSecret, paymentMethodID string) (PaymentResult, error)
}

// OrderStore persists order records.
type OrderStore interface {
	InsertOrder(order *models.Order) error
}

// OrderPublisher emits order.created events after a successful settlement.
// Publishing is best effort.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
}

// DeliveryAddress is the finished tuple the map picker hands over.
type DeliveryAddress struct {
	Formatted string  `json:"formatted"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ContactDetails is the checkout contact form. Address is required for
// delivery orders only.
type ContactDetails struct {
	FullName string           `json:"full_name"`
	Phone    string           `json:"phone"`
	Message  string           `json:"message"`
	Address  *DeliveryAddress `json:"address,omitempty"`
}

// Checkout runs one customer's checkout flow as a state machine:
// SelectingOrderType -> CapturingContact -> AwaitingPayment -> Settling ->
// Done. One checkout per session, single flow, no concurrent coordination.
type Checkout struct {
	state     CheckoutState
	cart      *Cart
	userID    *uint
	engine    *PricingEngine
	gateway   PaymentGateway
	orders    OrderStore
	points    PointsBank
	publisher OrderPublisher

	orderType    string
	redeemPoints bool
	contact      ContactDetails
	totals       OrderTotals
	snapshot     []models.LineSnapshot
	order        *models.Order
}

// NewCheckout starts a checkout for a non-empty cart. The publisher may be
// nil when event publishing is disabled.
func NewCheckout(cart *Cart, userID *uint, engine *PricingEngine, gateway PaymentGateway,
	orders OrderStore, points PointsBank, publisher OrderPublisher) (*Checkout, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return &Checkout{
		state:     StateSelectingOrderType,
		cart:      cart,
		userID:    userID,
		engine:    engine,
		gateway:   gateway,
		orders:    orders,
		points:    points,
		publisher: publisher,
	}, nil
}

func (co *Checkout) State() CheckoutState { return co.state }

// Totals returns the priced pending order once contact capture finished.
func (co *Checkout) Totals() OrderTotals { return co.totals }

// Order returns the persisted order after a successful settlement.
func (co *Checkout) Order() *models.Order { return co.order }

// SelectOrderType confirms delivery or pickup and whether the customer wants
// to redeem points, then moves to contact capture.
func (co *Checkout) SelectOrderType(orderType string, redeemPoints bool) error {
	if co.state != StateSelectingOrderType {
		return ErrInvalidTransition
	}
	if orderType != models.OrderTypeDelivery && orderType != models.OrderTypePickup {
		return &ValidationError{Field: "order_type", Message: "must be delivery or pickup"}
	}
	if redeemPoints && co.userID == nil {
		return &ValidationError{Field: "redeem_points", Message: "sign in to redeem points"}
	}

	co.orderType = orderType
	co.redeemPoints = redeemPoints
	co.state = StateCapturingContact
	return nil
}

// SubmitContact validates the contact form and prices the pending order. An
// invalid submission keeps the state unchanged and returns a field-level
// validation error with no side effects. Pickup orders skip address
// validation entirely.
func (co *Checkout) SubmitContact(contact ContactDetails) error {
	if co.state != StateCapturingContact {
		return ErrInvalidTransition
	}

	if contact.FullName == "" {
		return &ValidationError{Field: "full_name", Message: "full name is required"}
	}
	if contact.Phone == "" {
		return &ValidationError{Field: "phone", Message: "phone is required"}
	}
	if co.orderType == models.OrderTypeDelivery {
		if contact.Address == nil || contact.Address.Formatted == "" {
			return &ValidationError{Field: "address", Message: "please select a delivery address"}
		}
	} else {
		contact.Address = nil
	}

	totals, snapshot, err := co.engine.ComputeOrder(co.cart, co.orderType, co.userID, co.redeemPoints)
	if err != nil {
		return err
	}

	co.contact = contact
	co.totals = totals
	co.snapshot = snapshot
	co.state = StateAwaitingPayment
	return nil
}

// PayWithCard captures the payment through the gateway and settles. A capture
// failure keeps the checkout in AwaitingPayment with a retryable payment
// error; no order record is created for a failed capture.
func (co *Checkout) PayWithCard(ctx context.Context, paymentMethodID string) (*models.Order, error) {
	if co.state != StateAwaitingPayment {
		return nil, co.notAwaitingPaymentErr()
	}

	clientSecret, err := co.gateway.CreatePaymentIntent(ctx, utils.ToMinorUnits(co.totals.OrderTotal))
	if err != nil {
		return nil, &PaymentError{Reason: "could not start payment", Err: err}
	}

	result, err := co.gateway.ConfirmCardPayment(ctx, clientSecret, paymentMethodID)
	if err != nil {
		return nil, &PaymentError{Reason: "card was declined", Err: err}
	}
	if result.Status != "succeeded" {
		return nil, &PaymentError{Reason: fmt.Sprintf("payment not completed (status %s)", result.Status)}
	}

	// The customer is charged from here on: abandonment is no longer
	// clean-cancelable, and an order insert failure is a reconciliation
	// case, not a retryable one.
	ref := result.ReferenceID
	return co.settle(ctx, models.PaymentStatusPaid, &ref)
}

// ConfirmCashOnDelivery settles without a payment capture; the order is
// marked cash_on_delivery with no payment reference.
func (co *Checkout) ConfirmCashOnDelivery(ctx context.Context) (*models.Order, error) {
	if co.state != StateAwaitingPayment {
		return nil, co.notAwaitingPaymentErr()
	}
	return co.settle(ctx, models.PaymentStatusCashOnDelivery, nil)
}

// Cancel abandons the checkout. Allowed in any state before Settling: no
// partial order or payment exists yet, so there is nothing to undo.
func (co *Checkout) Cancel() error {
	switch co.state {
	case StateSelectingOrderType, StateCapturingContact, StateAwaitingPayment:
		co.state = StateCancelled
		return nil
	case StateDone, StateFailed, StateCancelled:
		return ErrCheckoutFinished
	default:
		return ErrInvalidTransition
	}
}

// settle persists the order and applies the points effects as a best-effort
// sequence, not a strict transaction: the order insert decides success, the
// ledger writes degrade gracefully.
func (co *Checkout) settle(ctx context.Context, paymentStatus string, paymentRef *string) (*models.Order, error) {
	co.state = StateSettling

	order := &models.Order{
		UserID:          co.userID,
		OrderType:       co.orderType,
		Status:          models.OrderStatusPending,
		PaymentStatus:   paymentStatus,
		PaymentIntentID: paymentRef,
		Subtotal:        co.totals.Subtotal,
		DeliveryFee:     co.totals.DeliveryFee,
		PointsDiscount:  co.totals.PointsDiscount,
		OrderTotal:      co.totals.OrderTotal,
		FullName:        co.contact.FullName,
		Phone:           co.contact.Phone,
		Message:         co.contact.Message,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if co.contact.Address != nil {
		addr := co.contact.Address.Formatted
		lat := co.contact.Address.Latitude
		lng := co.contact.Address.Longitude
		order.DeliveryAddress = &addr
		order.Latitude = &lat
		order.Longitude = &lng
	}
	if err := order.SetSnapshot(co.snapshot); err != nil {
		co.state = StateFailed
		return nil, fmt.Errorf("failed to freeze order items: %w", err)
	}

	if err := co.orders.InsertOrder(order); err != nil {
		co.state = StateFailed
		if paymentRef != nil {
			// The charge exists but the order does not. Surface it for
			// manual reconciliation, never as a generic failure.
			utils.ErrorLogger.Printf("order insert failed after successful payment %s: %v", *paymentRef, err)
			return nil, &SettlementError{PaymentIntentID: *paymentRef, Err: err}
		}
		return nil, fmt.Errorf("order could not be created: %w", err)
	}
	co.order = order

	// Points accounting is a side effect of the placed order: failures are
	// logged and never roll back the order or the payment.
	if co.userID != nil {
		if co.redeemPoints && co.totals.PointsToRedeem > 0 {
			if err := co.points.RecordSpend(*co.userID, co.totals.PointsToRedeem, &order.ID); err != nil {
				utils.ErrorLogger.Printf("failed to record points spend for order %d: %v", order.ID, err)
			}
		}
		if _, err := co.points.RecordEarn(*co.userID, co.totals.OrderTotal, &order.ID); err != nil {
			utils.ErrorLogger.Printf("failed to record points earn for order %d: %v", order.ID, err)
		}
	}

	if co.publisher != nil {
		if err := co.publisher.PublishOrderCreated(ctx, order); err != nil {
			utils.ErrorLogger.Printf("failed to publish order.created for order %d: %v", order.ID, err)
		}
	}

	co.cart.Clear()
	co.state = StateDone
	return order, nil
}

func (co *Checkout) notAwaitingPaymentErr() error {
	switch co.state {
	case StateDone, StateFailed, StateCancelled:
		return ErrCheckoutFinished
	default:
		return ErrInvalidTransition
	}
}
