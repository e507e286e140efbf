package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups menu items on the menu page.
type Category string

const (
	CategoryAppetizers  Category = "Appetizers"
	CategoryMainCourses Category = "Main Courses"
	CategoryDesserts    Category = "Desserts"
	CategoryDrinks      Category = "Drinks"
)

const (
	MinSpicyLevel = 0
	MaxSpicyLevel = 5
)

var categories = []Category{
	CategoryAppetizers,
	CategoryMainCourses,
	CategoryDesserts,
	CategoryDrinks,
}

// IsValid reports whether c is one of the fixed menu categories.
func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryNames lists the fixed menu categories in menu order.
func CategoryNames() []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return names
}

// Dietary flags a menu item's suitability for common diets.
type Dietary struct {
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	GlutenFree bool `json:"glutenFree"`
}

// CustomizationOption is one choice within a customization, e.g. "Extra cheese" for "Toppings".
type CustomizationOption struct {
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"priceAdjustment"`
}

// Customization is a named group of options offered for a menu item.
type Customization struct {
	Name    string                `json:"name"`
	Options []CustomizationOption `json:"options"`
}

// MenuItem is a dish or drink in the catalog.
type MenuItem struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Category       Category        `json:"category"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	Ingredients    []string        `json:"ingredients"`
	Dietary        Dietary         `json:"dietary"`
	SpicyLevel     int             `json:"spicyLevel"`
	Popular        bool            `json:"popular"`
	Available      bool            `json:"available"`
	Customizations []Customization `json:"customizations"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// MenuItemUpdate carries the fields of a partial menu item update. Nil fields are left unchanged.
type MenuItemUpdate struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	Category       *Category
	ImageURL       *string
	Ingredients    []string
	Dietary        *Dietary
	SpicyLevel     *int
	Popular        *bool
	Available      *bool
	Customizations []Customization
}

// IsEmpty reports whether the update changes nothing.
func (u *MenuItemUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Category == nil &&
		u.ImageURL == nil && u.Ingredients == nil && u.Dietary == nil && u.SpicyLevel == nil &&
		u.Popular == nil && u.Available == nil && u.Customizations == nil
}
