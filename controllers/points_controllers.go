package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/services"
	"github.com/firegrill/ordering-backend/utils"
)

type PointsController struct {
	Service *services.PointsService
}

func NewPointsController(db *gorm.DB) *PointsController {
	return &PointsController{Service: services.NewPointsService(db)}
}

// GetBalance returns the signed-in customer's current royalty point balance.
func (pc *PointsController) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrNoPermission)
		return
	}

	balance, err := pc.Service.CurrentBalance(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Points balance", gin.H{
		"balance": balance,
	})
}

// QuoteRedemption previews how many points would be redeemed against a given
// order total and the resulting discount.
func (pc *PointsController) QuoteRedemption(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrNoPermission)
		return
	}

	var body struct {
		OrderTotal float64 `json:"order_total" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	quote, err := pc.Service.QuoteRedemption(userID, body.OrderTotal)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Redemption quote", quote)
}

// GetHistory lists the customer's point ledger entries, newest first.
func (pc *PointsController) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrNoPermission)
		return
	}

	entries, err := pc.Service.History(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Points history", entries)
}
