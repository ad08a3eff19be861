package models

import "time"

// Choice kinds. Options and meal upgrades are radio-style groups, addons and
// sauces are checkbox-style extras.
const (
	ChoiceKindOption     = "option"
	ChoiceKindAddon      = "addon"
	ChoiceKindMealOption = "meal_option"
	ChoiceKindSauce      = "sauce"
)

// MenuItemChoice is a single customization choice (option, addon, meal
// upgrade or sauce) with its own price adjustment. A choice is scoped either
// to one menu item (MenuItemID set) or to a whole category (CategoryID set).
type MenuItemChoice struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MenuItemID      *uint     `gorm:"index" json:"menu_item_id,omitempty"`
	CategoryID      *uint     `gorm:"index" json:"category_id,omitempty"`
	Kind            string    `gorm:"type:varchar(20);not null" json:"kind"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	PriceAdjustment float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"price_adjustment"`
	IsRequired      bool      `gorm:"not null;default:false" json:"is_required"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// AppliesTo reports whether the choice belongs to the given item, either
// directly or through the item's category.
func (ch MenuItemChoice) AppliesTo(item MenuItem) bool {
	if ch.MenuItemID != nil && *ch.MenuItemID == item.ID {
		return true
	}
	if ch.CategoryID != nil && item.CategoryID != nil && *ch.CategoryID == *item.CategoryID {
		return true
	}
	return false
}
