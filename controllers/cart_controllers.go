package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/services"
	"github.com/firegrill/ordering-backend/utils"
)

// SessionHeader carries the browsing-session id that owns a cart. Clients
// without one get a fresh id back on their first cart call.
const SessionHeader = "X-Session-ID"

type CartController struct {
	DB    *gorm.DB
	Store *services.CartStore
}

func NewCartController(db *gorm.DB, store *services.CartStore) *CartController {
	return &CartController{DB: db, Store: store}
}

// sessionID returns the request's session id, minting one when absent. The id
// is always echoed on the response so the client can persist it.
func sessionID(c *gin.Context) string {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(SessionHeader, id)
	return id
}

// GetCart
func (cc *CartController) GetCart(c *gin.Context) {
	sid := sessionID(c)
	cart, err := cc.Store.Load(c.Request.Context(), sid)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart", gin.H{
		"lines":       cart.Lines,
		"subtotal":    cart.Subtotal(),
		"total_items": cart.TotalItems(),
	})
}

// AddLine adds a configured menu item to the cart. Lines with an identical
// item and selection set merge regardless of selection order.
func (cc *CartController) AddLine(c *gin.Context) {
	sid := sessionID(c)

	var body struct {
		MenuItemID   uint   `json:"menu_item_id" binding:"required"`
		SelectionIDs []uint `json:"selection_ids"`
		Quantity     int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	if err := cc.DB.Preload("Choices").First(&item, body.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var selections []models.MenuItemChoice
	if len(body.SelectionIDs) > 0 {
		if err := cc.DB.Where("id IN ?", body.SelectionIDs).Find(&selections).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if len(selections) != len(body.SelectionIDs) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown selection id"))
			return
		}
	}

	cart, err := cc.Store.Load(c.Request.Context(), sid)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	line, err := cart.AddLine(item, selections, body.Quantity)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := cc.Store.Save(c.Request.Context(), sid, cart); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Line added", gin.H{
		"line":     line,
		"subtotal": cart.Subtotal(),
	})
}

// SetQuantity updates a line's quantity; a quantity below 1 removes the line.
func (cc *CartController) SetQuantity(c *gin.Context) {
	sid := sessionID(c)
	lineID := c.Param("line_id")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart, err := cc.Store.Load(c.Request.Context(), sid)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cart.SetQuantity(lineID, body.Quantity)

	if err := cc.Store.Save(c.Request.Context(), sid, cart); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Quantity updated", gin.H{
		"lines":    cart.Lines,
		"subtotal": cart.Subtotal(),
	})
}

// RemoveLine drops a line; removing an unknown line is a no-op.
func (cc *CartController) RemoveLine(c *gin.Context) {
	sid := sessionID(c)
	lineID := c.Param("line_id")

	cart, err := cc.Store.Load(c.Request.Context(), sid)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cart.RemoveLine(lineID)

	if err := cc.Store.Save(c.Request.Context(), sid, cart); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Line removed", gin.H{
		"lines":    cart.Lines,
		"subtotal": cart.Subtotal(),
	})
}

// ClearCart
func (cc *CartController) ClearCart(c *gin.Context) {
	sid := sessionID(c)
	if err := cc.Store.Delete(c.Request.Context(), sid); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}
