package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

// fakePointsBank holds a fixed balance and records ledger calls.
type fakePointsBank struct {
	balance     int
	spent       int
	earnedPaid  float64
	spendErr    error
	earnErr     error
	spendCalled bool
	earnCalled  bool
}

func (f *fakePointsBank) CurrentBalance(userID uint) (int, error) {
	return f.balance, nil
}

func (f *fakePointsBank) QuoteRedemption(userID uint, candidateOrderTotal float64) (RedemptionQuote, error) {
	points := utils.FloorUnits(candidateOrderTotal, PointsPerDollarRedeemed)
	if f.balance < points {
		points = f.balance
	}
	return RedemptionQuote{
		PointsToRedeem: points,
		Discount:       utils.RoundCurrency(float64(points) / PointsPerDollarRedeemed),
	}, nil
}

func (f *fakePointsBank) RecordSpend(userID uint, points int, orderID *uint) error {
	f.spendCalled = true
	if f.spendErr != nil {
		return f.spendErr
	}
	f.spent = points
	f.balance -= points
	return nil
}

func (f *fakePointsBank) RecordEarn(userID uint, amountPaid float64, orderID *uint) (int, error) {
	f.earnCalled = true
	if f.earnErr != nil {
		return 0, f.earnErr
	}
	f.earnedPaid = amountPaid
	return utils.FloorUnits(amountPaid, PointsPerDollarEarned), nil
}

func twentyDollarCart(t *testing.T) *Cart {
	t.Helper()
	item := burgerWithChoices()
	cart := NewCart()
	// burger + cheese at 8.00, twice, plus fries at 4.00 = 20.00
	_, err := cart.AddLine(item, []models.MenuItemChoice{item.Choices[0], item.Choices[2]}, 2)
	assert.NoError(t, err)
	_, err = cart.AddLine(friesItem(), nil, 1)
	assert.NoError(t, err)
	return cart
}

func TestComputeOrderDeliveryAddsFee(t *testing.T) {
	engine := NewPricingEngine(&fakePointsBank{})
	cart := twentyDollarCart(t)

	totals, snapshot, err := engine.ComputeOrder(cart, models.OrderTypeDelivery, nil, false)
	assert.NoError(t, err)
	assert.Equal(t, 20.00, totals.Subtotal)
	assert.Equal(t, 3.99, totals.DeliveryFee)
	assert.Equal(t, 23.99, totals.OrderTotal)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, "Classic Burger", snapshot[0].Name)
	assert.Len(t, snapshot[0].Options, 2)
}

func TestComputeOrderPickupSkipsFee(t *testing.T) {
	engine := NewPricingEngine(&fakePointsBank{})
	cart := twentyDollarCart(t)

	totals, _, err := engine.ComputeOrder(cart, models.OrderTypePickup, nil, false)
	assert.NoError(t, err)
	assert.Equal(t, 0.00, totals.DeliveryFee)
	assert.Equal(t, 20.00, totals.OrderTotal)
}

func TestComputeOrderRedeemsPoints(t *testing.T) {
	bank := &fakePointsBank{balance: 1000}
	engine := NewPricingEngine(bank)
	cart := twentyDollarCart(t)
	userID := uint(1)

	totals, _, err := engine.ComputeOrder(cart, models.OrderTypePickup, &userID, true)
	assert.NoError(t, err)
	assert.Equal(t, 1000, totals.PointsToRedeem)
	assert.Equal(t, 10.00, totals.PointsDiscount)
	assert.Equal(t, 10.00, totals.OrderTotal)
}

func TestComputeOrderRedemptionCappedByTotal(t *testing.T) {
	bank := &fakePointsBank{balance: 50000}
	engine := NewPricingEngine(bank)
	cart := twentyDollarCart(t)
	userID := uint(1)

	totals, _, err := engine.ComputeOrder(cart, models.OrderTypeDelivery, &userID, true)
	assert.NoError(t, err)
	assert.Equal(t, 2399, totals.PointsToRedeem)
	assert.Equal(t, 23.99, totals.PointsDiscount)
	assert.Equal(t, 0.00, totals.OrderTotal)
}

func TestComputeOrderGuestCannotRedeem(t *testing.T) {
	bank := &fakePointsBank{balance: 1000}
	engine := NewPricingEngine(bank)
	cart := twentyDollarCart(t)

	totals, _, err := engine.ComputeOrder(cart, models.OrderTypePickup, nil, true)
	assert.NoError(t, err)
	assert.Equal(t, 0, totals.PointsToRedeem)
	assert.Equal(t, 20.00, totals.OrderTotal)
}

func TestComputeOrderEmptyCart(t *testing.T) {
	engine := NewPricingEngine(&fakePointsBank{})

	_, _, err := engine.ComputeOrder(NewCart(), models.OrderTypePickup, nil, false)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSnapshotUnaffectedByLaterMenuEdits(t *testing.T) {
	engine := NewPricingEngine(&fakePointsBank{})
	cart := twentyDollarCart(t)

	_, snapshot, err := engine.ComputeOrder(cart, models.OrderTypePickup, nil, false)
	assert.NoError(t, err)

	// Mutating the cart's item afterwards must not reach the snapshot.
	cart.Lines[0].Item.Name = "Renamed Burger"
	cart.Lines[0].Item.Price = 99.00
	assert.Equal(t, "Classic Burger", snapshot[0].Name)
	assert.Equal(t, 8.00, snapshot[0].Price)
}
