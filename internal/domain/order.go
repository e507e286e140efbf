package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the kitchen progress of an order. Any status may be set from any other.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderStatusNames lists the known order statuses.
func OrderStatusNames() []string {
	names := make([]string, 0, len(orderStatuses))
	for _, s := range orderStatuses {
		names = append(names, string(s))
	}
	return names
}

// LineCustomization records a customization the customer picked for one order line.
// Its price adjustment is stored for reference and is not part of the order total.
type LineCustomization struct {
	Name            string          `json:"name"`
	Option          string          `json:"option,omitempty"`
	PriceAdjustment decimal.Decimal `json:"priceAdjustment"`
}

// OrderItem is one line of an order. Name and unit price are copied from the
// menu when the order is placed.
type OrderItem struct {
	ID                  int64               `json:"id"`
	MenuItemID          string              `json:"menu_item_id"`
	MenuItemName        string              `json:"menu_item_name"`
	Quantity            int                 `json:"quantity"`
	UnitPrice           decimal.Decimal     `json:"unit_price"`
	SpecialInstructions *string             `json:"special_instructions"`
	Customizations      []LineCustomization `json:"customizations"`
}

// LineTotal is unit price times quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is an order header and, when loaded with details, its items.
type Order struct {
	ID           int64           `json:"id"`
	UserID       *string         `json:"user_id"`
	OrderDate    time.Time       `json:"order_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       OrderStatus     `json:"status"`
	PickupTime   *time.Time      `json:"pickup_time"`
	ContactName  string          `json:"contact_name"`
	ContactPhone string          `json:"contact_phone"`
	Items        []OrderItem     `json:"items,omitempty"`
}
