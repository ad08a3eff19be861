package services

import (
	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

// DeliveryFeeAmount is the flat fee applied to delivery orders. Pickup orders
// pay no fee.
const DeliveryFeeAmount = 3.99

// PointsBank is the slice of the points ledger the pricing and checkout
// layers consume.
type PointsBank interface {
	CurrentBalance(userID uint) (int, error)
	QuoteRedemption(userID uint, candidateOrderTotal float64) (RedemptionQuote, error)
	RecordSpend(userID uint, points int, orderID *uint) error
	RecordEarn(userID uint, amountPaid float64, orderID *uint) (int, error)
}

// OrderTotals is the derived pricing of a pending order.
type OrderTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DeliveryFee    float64 `json:"delivery_fee"`
	PointsToRedeem int     `json:"points_to_redeem"`
	PointsDiscount float64 `json:"points_discount"`
	OrderTotal     float64 `json:"order_total"`
}

// PricingEngine combines cart subtotal, the order type's delivery fee rule
// and an optional points redemption into the final payable total plus the
// frozen line-item snapshot the order record persists.
type PricingEngine struct {
	points PointsBank
}

func NewPricingEngine(points PointsBank) *PricingEngine {
	return &PricingEngine{points: points}
}

// ComputeOrder derives the totals for a cart. redeemPoints is ignored for
// guests (nil userID): only signed-in customers own a ledger. An empty cart
// must be blocked before checkout entry; reaching this with one is an error.
func (e *PricingEngine) ComputeOrder(cart *Cart, orderType string, userID *uint, redeemPoints bool) (OrderTotals, []models.LineSnapshot, error) {
	if cart == nil || cart.IsEmpty() {
		return OrderTotals{}, nil, ErrEmptyCart
	}

	totals := OrderTotals{
		Subtotal: cart.Subtotal(),
	}
	if orderType == models.OrderTypeDelivery {
		totals.DeliveryFee = DeliveryFeeAmount
	}

	preliminary := utils.RoundCurrency(totals.Subtotal + totals.DeliveryFee)

	if redeemPoints && userID != nil {
		quote, err := e.points.QuoteRedemption(*userID, preliminary)
		if err != nil {
			return OrderTotals{}, nil, err
		}
		totals.PointsToRedeem = quote.PointsToRedeem
		totals.PointsDiscount = quote.Discount
	}

	// The quote is capped at the preliminary total, so this never goes
	// negative.
	totals.OrderTotal = utils.RoundCurrency(preliminary - totals.PointsDiscount)

	return totals, snapshotLines(cart), nil
}

// snapshotLines freezes the cart's lines at this moment; later menu edits
// must not alter historical orders.
func snapshotLines(cart *Cart) []models.LineSnapshot {
	lines := make([]models.LineSnapshot, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		snap := models.LineSnapshot{
			MenuItemID: line.Item.ID,
			Name:       line.Item.Name,
			Quantity:   line.Quantity,
			Price:      line.UnitPrice,
		}
		for _, sel := range line.Selections {
			snap.Options = append(snap.Options, models.SnapshotOption{
				ChoiceID:        sel.ID,
				Kind:            sel.Kind,
				Name:            sel.Name,
				PriceAdjustment: sel.PriceAdjustment,
			})
		}
		lines = append(lines, snap)
	}
	return lines
}
