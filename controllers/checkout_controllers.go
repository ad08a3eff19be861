package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/services"
	"github.com/firegrill/ordering-backend/utils"
)

// CheckoutController is the HTTP surface over the checkout state machine.
// Each browsing session drives at most one checkout at a time.
type CheckoutController struct {
	Store     *services.CartStore
	Manager   *services.CheckoutManager
	Engine    *services.PricingEngine
	Gateway   services.PaymentGateway
	Orders    *services.GormOrderStore
	Points    services.PointsBank
	Publisher services.OrderPublisher
}

func NewCheckoutController(db *gorm.DB, store *services.CartStore, gateway services.PaymentGateway,
	points services.PointsBank, publisher services.OrderPublisher) *CheckoutController {
	return &CheckoutController{
		Store:     store,
		Manager:   services.NewCheckoutManager(),
		Engine:    services.NewPricingEngine(points),
		Gateway:   gateway,
		Orders:    services.NewGormOrderStore(db),
		Points:    points,
		Publisher: publisher,
	}
}

// Start begins a checkout over the session's cart. An empty cart is rejected
// before any state exists.
func (cc *CheckoutController) Start(c *gin.Context) {
	sid := sessionID(c)

	cart, err := cc.Store.Load(c.Request.Context(), sid)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var userID *uint
	if id, ok := currentUserID(c); ok {
		userID = &id
	}

	checkout, err := services.NewCheckout(cart, userID, cc.Engine, cc.Gateway, cc.Orders, cc.Points, cc.Publisher)
	if err != nil {
		cc.respondCheckoutError(c, err)
		return
	}

	if err := cc.Manager.Begin(sid, checkout); err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Checkout started", gin.H{
		"state": checkout.State(),
	})
}

// SelectOrderType
func (cc *CheckoutController) SelectOrderType(c *gin.Context) {
	var body struct {
		OrderType    string `json:"order_type" binding:"required"`
		RedeemPoints bool   `json:"redeem_points"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	checkout, err := cc.Manager.Get(sessionID(c))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := checkout.SelectOrderType(body.OrderType, body.RedeemPoints); err != nil {
		cc.respondCheckoutError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order type selected", gin.H{
		"state": checkout.State(),
	})
}

// SubmitContact captures name/phone (and the picked delivery address) and
// prices the pending order.
func (cc *CheckoutController) SubmitContact(c *gin.Context) {
	var contact services.ContactDetails
	if err := c.ShouldBindJSON(&contact); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	checkout, err := cc.Manager.Get(sessionID(c))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := checkout.SubmitContact(contact); err != nil {
		cc.respondCheckoutError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Contact captured", gin.H{
		"state":  checkout.State(),
		"totals": checkout.Totals(),
	})
}

// PayWithCard captures the card payment and settles the order. Capture
// failures are retryable; the checkout stays in awaiting_payment.
func (cc *CheckoutController) PayWithCard(c *gin.Context) {
	var body struct {
		PaymentMethodID string `json:"payment_method_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sid := sessionID(c)
	checkout, err := cc.Manager.Get(sid)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order, err := checkout.PayWithCard(c.Request.Context(), body.PaymentMethodID)
	if err != nil {
		cc.respondCheckoutError(c, err)
		return
	}

	cc.finishSession(c, sid)
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// PayWithCash confirms pay-on-delivery and settles the order.
func (cc *CheckoutController) PayWithCash(c *gin.Context) {
	sid := sessionID(c)
	checkout, err := cc.Manager.Get(sid)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order, err := checkout.ConfirmCashOnDelivery(c.Request.Context())
	if err != nil {
		cc.respondCheckoutError(c, err)
		return
	}

	cc.finishSession(c, sid)
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// Cancel abandons the checkout before settlement; no side effects exist yet.
func (cc *CheckoutController) Cancel(c *gin.Context) {
	sid := sessionID(c)
	checkout, err := cc.Manager.Get(sid)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := checkout.Cancel(); err != nil {
		cc.respondCheckoutError(c, err)
		return
	}
	cc.Manager.End(sid)

	utils.RespondJSON(c, http.StatusOK, "Checkout cancelled", nil)
}

// GetState reports the checkout's current state and totals so the client can
// resume mid-flow.
func (cc *CheckoutController) GetState(c *gin.Context) {
	checkout, err := cc.Manager.Get(sessionID(c))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Checkout state", gin.H{
		"state":  checkout.State(),
		"totals": checkout.Totals(),
	})
}

// finishSession drops the settled checkout and the now-cleared session cart.
func (cc *CheckoutController) finishSession(c *gin.Context, sid string) {
	if err := cc.Store.Delete(c.Request.Context(), sid); err != nil {
		utils.ErrorLogger.Printf("failed to clear cart for session %s: %v", sid, err)
	}
	cc.Manager.End(sid)
}

// respondCheckoutError maps the checkout error taxonomy onto HTTP. The
// post-payment settlement failure gets its own distinct payload: the customer
// has been charged and must not retry blindly.
func (cc *CheckoutController) respondCheckoutError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var paymentErr *services.PaymentError
	var settlementErr *services.SettlementError

	switch {
	case errors.As(err, &settlementErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":            false,
			"message":           "payment succeeded but we couldn't finalize your order, please contact support",
			"payment_intent_id": settlementErr.PaymentIntentID,
			"error_kind":        "settlement_failed",
		})
	case errors.As(err, &paymentErr):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"status":     false,
			"message":    paymentErr.Error(),
			"error_kind": "payment_failed",
			"retryable":  true,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":     false,
			"message":    validationErr.Message,
			"field":      validationErr.Field,
			"error_kind": "validation",
		})
	case errors.Is(err, services.ErrEmptyCart):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrCheckoutFinished):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
