package services

import (
	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

// ResolveLinePrice computes the effective unit price of one cart line: the
// item's base price plus the price adjustment of every selected customization
// choice. Zero adjustments are valid and common ("no substitution").
//
// The item must carry its choice set (Choices preloaded): a kind that has any
// required choice must have exactly one selection of that kind, and every
// selection must be scoped to the item or its category. Pure function, no
// side effects.
func ResolveLinePrice(item models.MenuItem, selections []models.MenuItemChoice) (float64, error) {
	for _, sel := range selections {
		if !sel.AppliesTo(item) {
			return 0, ErrInvalidSelectionScope
		}
	}

	// A kind with at least one required choice demands exactly one required
	// selection of that kind. Optional choices of the same kind stay
	// zero-or-more.
	requiredKinds := make(map[string]bool)
	for _, ch := range item.Choices {
		if ch.IsRequired {
			requiredKinds[ch.Kind] = true
		}
	}
	for kind := range requiredKinds {
		count := 0
		for _, sel := range selections {
			if sel.Kind == kind && sel.IsRequired {
				count++
			}
		}
		if count != 1 {
			return 0, ErrMissingRequiredSelection
		}
	}

	price := item.Price
	for _, sel := range selections {
		price += sel.PriceAdjustment
	}
	return utils.RoundCurrency(price), nil
}
