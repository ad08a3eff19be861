package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenuItems lists available items for the storefront. ?all=true (admin
// screens) includes unavailable ones, ?featured=true narrows to the home page
// selection.
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	query := mc.DB.Preload("Category")
	if c.Query("all") != "true" {
		query = query.Where("available = ?", true)
	}
	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("name asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// GetMenuItemsByCategory
func (mc *MenuController) GetMenuItemsByCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Query("category_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var items []models.MenuItem
	if err := mc.DB.Where("category_id = ? AND available = ?", categoryID, true).
		Order("name asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu items by category", items)
}

// GetMenuItemByID returns one item with its customization choices, the shape
// the customization dialog consumes.
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	idStr := c.Param("item_id")
	id, _ := strconv.Atoi(idStr)

	var item models.MenuItem
	if err := mc.DB.Preload("Category").Preload("Choices").First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

type choiceReq struct {
	Kind            string  `json:"kind" binding:"required,oneof=option addon meal_option sauce"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	PriceAdjustment float64 `json:"price_adjustment" binding:"gte=0"`
	IsRequired      bool    `json:"is_required"`
}

// CreateMenuItem (admin)
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var body struct {
		CategoryID  *uint       `json:"category_id"`
		Name        string      `json:"name" binding:"required"`
		Description string      `json:"description"`
		Price       float64     `json:"price" binding:"gte=0"`
		Available   *bool       `json:"available"`
		Featured    bool        `json:"featured"`
		ImageURL    *string     `json:"image_url"`
		Choices     []choiceReq `json:"choices"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	available := true
	if body.Available != nil {
		available = *body.Available
	}

	item := models.MenuItem{
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		Description: body.Description,
		Price:       utils.RoundCurrency(body.Price),
		Available:   available,
		Featured:    body.Featured,
		ImageURL:    body.ImageURL,
	}
	for _, ch := range body.Choices {
		item.Choices = append(item.Choices, models.MenuItemChoice{
			Kind:            ch.Kind,
			Name:            ch.Name,
			Description:     ch.Description,
			PriceAdjustment: utils.RoundCurrency(ch.PriceAdjustment),
			IsRequired:      ch.IsRequired,
		})
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem (admin). Placed orders are unaffected: they carry their own
// line snapshots.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	idStr := c.Param("item_id")
	id, _ := strconv.Atoi(idStr)

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		CategoryID  *uint    `json:"category_id"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Available   *bool    `json:"available"`
		Featured    *bool    `json:"featured"`
		ImageURL    *string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CategoryID != nil {
		item.CategoryID = body.CategoryID
	}
	if body.Name != nil && *body.Name != "" {
		item.Name = *body.Name
	}
	if body.Description != nil {
		item.Description = *body.Description
	}
	if body.Price != nil && *body.Price >= 0 {
		item.Price = utils.RoundCurrency(*body.Price)
	}
	if body.Available != nil {
		item.Available = *body.Available
	}
	if body.Featured != nil {
		item.Featured = *body.Featured
	}
	if body.ImageURL != nil {
		item.ImageURL = body.ImageURL
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem (admin)
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	idStr := c.Param("item_id")
	id, _ := strconv.Atoi(idStr)

	if err := mc.DB.Delete(&models.MenuItem{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": id})
}

// AddChoice attaches a customization choice to an item (admin).
func (mc *MenuController) AddChoice(c *gin.Context) {
	idStr := c.Param("item_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body choiceReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	itemID := item.ID
	choice := models.MenuItemChoice{
		MenuItemID:      &itemID,
		Kind:            body.Kind,
		Name:            body.Name,
		Description:     body.Description,
		PriceAdjustment: utils.RoundCurrency(body.PriceAdjustment),
		IsRequired:      body.IsRequired,
	}
	if err := mc.DB.Create(&choice).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Choice added", choice)
}

// DeleteChoice (admin)
func (mc *MenuController) DeleteChoice(c *gin.Context) {
	idStr := c.Param("choice_id")
	id, _ := strconv.Atoi(idStr)

	if err := mc.DB.Delete(&models.MenuItemChoice{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Choice deleted", gin.H{"choice_id": id})
}
