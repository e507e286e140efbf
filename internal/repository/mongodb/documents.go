package mongodb

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CameronXie/digital-diner/internal/domain"
)

// Prices are stored as doubles so documents written by other clients of the
// collection stay readable. Values are rounded to cents on the way out.

type dietaryDocument struct {
	Vegetarian bool `bson:"vegetarian"`
	Vegan      bool `bson:"vegan"`
	GlutenFree bool `bson:"glutenFree"`
}

type customizationOptionDocument struct {
	Name            string  `bson:"name"`
	PriceAdjustment float64 `bson:"priceAdjustment"`
}

type customizationDocument struct {
	Name    string                        `bson:"name"`
	Options []customizationOptionDocument `bson:"options"`
}

type menuItemDocument struct {
	ID             primitive.ObjectID      `bson:"_id,omitempty"`
	Name           string                  `bson:"name"`
	Description    string                  `bson:"description"`
	Price          float64                 `bson:"price"`
	Category       string                  `bson:"category"`
	ImageURL       string                  `bson:"imageUrl,omitempty"`
	Ingredients    []string                `bson:"ingredients"`
	Dietary        dietaryDocument         `bson:"dietary"`
	SpicyLevel     int                     `bson:"spicyLevel"`
	Popular        bool                    `bson:"popular"`
	Available      bool                    `bson:"available"`
	Customizations []customizationDocument `bson:"customizations"`
	CreatedAt      time.Time               `bson:"createdAt"`
	UpdatedAt      time.Time               `bson:"updatedAt"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Phone     string             `bson:"phone,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func priceFromDocument(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func priceToDocument(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func customizationsToDocument(in []domain.Customization) []customizationDocument {
	out := make([]customizationDocument, 0, len(in))
	for _, c := range in {
		opts := make([]customizationOptionDocument, 0, len(c.Options))
		for _, o := range c.Options {
			opts = append(opts, customizationOptionDocument{Name: o.Name, PriceAdjustment: priceToDocument(o.PriceAdjustment)})
		}
		out = append(out, customizationDocument{Name: c.Name, Options: opts})
	}
	return out
}

func customizationsFromDocument(in []customizationDocument) []domain.Customization {
	out := make([]domain.Customization, 0, len(in))
	for _, c := range in {
		opts := make([]domain.CustomizationOption, 0, len(c.Options))
		for _, o := range c.Options {
			opts = append(opts, domain.CustomizationOption{Name: o.Name, PriceAdjustment: priceFromDocument(o.PriceAdjustment)})
		}
		out = append(out, domain.Customization{Name: c.Name, Options: opts})
	}
	return out
}

func menuItemToDocument(item *domain.MenuItem) menuItemDocument {
	ingredients := item.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	return menuItemDocument{
		Name:        item.Name,
		Description: item.Description,
		Price:       priceToDocument(item.Price),
		Category:    string(item.Category),
		ImageURL:    item.ImageURL,
		Ingredients: ingredients,
		Dietary: dietaryDocument{
			Vegetarian: item.Dietary.Vegetarian,
			Vegan:      item.Dietary.Vegan,
			GlutenFree: item.Dietary.GlutenFree,
		},
		SpicyLevel:     item.SpicyLevel,
		Popular:        item.Popular,
		Available:      item.Available,
		Customizations: customizationsToDocument(item.Customizations),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

func (d *menuItemDocument) toDomain() domain.MenuItem {
	ingredients := d.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	return domain.MenuItem{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       priceFromDocument(d.Price),
		Category:    domain.Category(d.Category),
		ImageURL:    d.ImageURL,
		Ingredients: ingredients,
		Dietary: domain.Dietary{
			Vegetarian: d.Dietary.Vegetarian,
			Vegan:      d.Dietary.Vegan,
			GlutenFree: d.Dietary.GlutenFree,
		},
		SpicyLevel:     d.SpicyLevel,
		Popular:        d.Popular,
		Available:      d.Available,
		Customizations: customizationsFromDocument(d.Customizations),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func userToDocument(u *domain.User) userDocument {
	return userDocument{
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d *userDocument) toDomain() domain.User {
	role := d.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	return domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Role:         role,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
