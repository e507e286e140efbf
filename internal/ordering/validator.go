// Package ordering validates and places orders, and serves order lookups and status changes.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/CameronXie/digital-diner/internal/domain"
	"github.com/CameronXie/digital-diner/internal/repository"
)

// MenuCatalog resolves menu items by id.
type MenuCatalog interface {
	GetMenuItemByID(ctx context.Context, id string) (*domain.MenuItem, error)
}

// LineRequest is one requested order line as sent by the client.
type LineRequest struct {
	MenuItemID          string                     `json:"menuItemId"`
	Quantity            int                        `json:"quantity"`
	SpecialInstructions *string                    `json:"specialInstructions,omitempty"`
	Customizations      []domain.LineCustomization `json:"customizations,omitempty"`
}

// Validator resolves requested lines against the menu and prices them.
type Validator struct {
	catalog MenuCatalog
}

// NewValidator creates a Validator backed by catalog.
func NewValidator(catalog MenuCatalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate checks lines in order and stops at the first failure. Each verified line
// carries the menu item's current name and price. The total is the sum of unit price
// times quantity; customization price adjustments are not included.
//
// It returns *InvalidInputError for a bad line and *repository.NotFoundError for an
// unknown menu item.
func (v *Validator) Validate(ctx context.Context, lines []LineRequest) ([]domain.OrderItem, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, invalidInput("items must contain at least 1 item(s)")
	}

	items := make([]domain.OrderItem, 0, len(lines))
	total := decimal.Zero

	for i, line := range lines {
		id := strings.TrimSpace(line.MenuItemID)
		if id == "" || line.Quantity <= 0 {
			return nil, decimal.Zero, invalidInput(fmt.Sprintf("invalid item data at line %d", i+1))
		}

		menuItem, err := v.catalog.GetMenuItemByID(ctx, id)
		if err != nil {
			var invalidIDErr *repository.InvalidIDError
			if errors.As(err, &invalidIDErr) {
				return nil, decimal.Zero, invalidInput("invalid menu item id: " + id)
			}
			return nil, decimal.Zero, fmt.Errorf("resolve menu item %s: %w", id, err)
		}

		item := domain.OrderItem{
			MenuItemID:          id,
			MenuItemName:        menuItem.Name,
			Quantity:            line.Quantity,
			UnitPrice:           menuItem.Price,
			SpecialInstructions: nonEmpty(line.SpecialInstructions),
			Customizations:      line.Customizations,
		}

		total = total.Add(item.LineTotal())
		items = append(items, item)
	}

	return items, total, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
