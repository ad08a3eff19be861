package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

// CartLine is one distinct (menu item + selected customizations) entry with a
// quantity. Item data and the resolved unit price are captured at add-time.
type CartLine struct {
	LineID     string                  `json:"line_id"`
	Item       models.MenuItem         `json:"item"`
	Selections []models.MenuItemChoice `json:"selections,omitempty"`
	Quantity   int                     `json:"quantity"`
	UnitPrice  float64                 `json:"unit_price"`

	signature string
}

// Cart is an ordered collection of cart lines owned by one browsing session.
// All operations are in-memory; persistence is the cart store's concern.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func NewCart() *Cart {
	return &Cart{}
}

// lineSignature builds an order-independent identity over (item, selections):
// two lines with the same item and the same selected-choice set merge no
// matter the order the choices were picked in.
func lineSignature(itemID uint, selections []models.MenuItemChoice) string {
	ids := make([]string, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, fmt.Sprintf("%d", sel.ID))
	}
	sort.Strings(ids)
	return fmt.Sprintf("%d|%s", itemID, strings.Join(ids, ","))
}

// AddLine resolves the line price and either merges into an existing line
// with an identical (item, selection-set) signature or appends a new line.
// Returns the affected line.
func (c *Cart) AddLine(item models.MenuItem, selections []models.MenuItemChoice, qty int) (*CartLine, error) {
	if !item.Available {
		return nil, ErrItemUnavailable
	}
	if qty < 1 {
		qty = 1
	}

	unitPrice, err := ResolveLinePrice(item, selections)
	if err != nil {
		return nil, err
	}

	sig := lineSignature(item.ID, selections)
	for i := range c.Lines {
		if c.Lines[i].Signature() == sig {
			c.Lines[i].Quantity += qty
			return &c.Lines[i], nil
		}
	}

	line := CartLine{
		LineID:     uuid.NewString(),
		Item:       item,
		Selections: selections,
		Quantity:   qty,
		UnitPrice:  unitPrice,
		signature:  sig,
	}
	c.Lines = append(c.Lines, line)
	return &c.Lines[len(c.Lines)-1], nil
}

// SetQuantity updates a line's quantity. A quantity below 1 removes the line;
// that is defined behavior, not an error. Unknown line ids are a no-op.
func (c *Cart) SetQuantity(lineID string, qty int) {
	if qty < 1 {
		c.RemoveLine(lineID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			c.Lines[i].Quantity = qty
			return
		}
	}
}

// RemoveLine drops a line from the cart. Removing a non-existent line is a
// no-op.
func (c *Cart) RemoveLine(lineID string) {
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Subtotal is recomputed from the lines on every call, never cached.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return utils.RoundCurrency(total)
}

// TotalItems returns the summed quantity over all lines.
func (c *Cart) TotalItems() int {
	var n int
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Signature returns the line's merge identity, rebuilding it after JSON
// round-trips through the cart store.
func (l *CartLine) Signature() string {
	if l.signature == "" {
		l.signature = lineSignature(l.Item.ID, l.Selections)
	}
	return l.signature
}
