package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CameronXie/digital-diner/internal/domain"
	"github.com/CameronXie/digital-diner/internal/repository"
)

const (
	MenuItemResource = "menu item"
)

// MenuRepository reads and writes the menu catalog.
type MenuRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMenuRepository creates a MenuRepository over the menuitems collection of db.
func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{
		coll: db.Collection(MenuItemsCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// ListAvailable returns every item that is currently orderable.
func (r *MenuRepository) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	return r.find(ctx, bson.D{{Key: "available", Value: true}})
}

// ListByCategory returns the orderable items of one category.
func (r *MenuRepository) ListByCategory(ctx context.Context, category domain.Category) ([]domain.MenuItem, error) {
	return r.find(ctx, bson.D{
		{Key: "category", Value: string(category)},
		{Key: "available", Value: true},
	})
}

// Categories returns the distinct categories present in the catalog.
func (r *MenuRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct menu categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}

	return categories, nil
}

// GetMenuItemByID resolves a menu item by its hex id.
func (r *MenuRepository) GetMenuItemByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	oid, err := parseObjectID(MenuItemResource, id)
	if err != nil {
		return nil, err
	}

	var doc menuItemDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, menuItemNotFound(id)
		}
		return nil, fmt.Errorf("failed to retrieve menu item with id %s: %w", id, err)
	}

	item := doc.toDomain()
	return &item, nil
}

// CreateMenuItem stores a new item and fills in its id and timestamps.
func (r *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	now := r.now()
	item.CreatedAt, item.UpdatedAt = now, now

	res, err := r.coll.InsertOne(ctx, menuItemToDocument(item))
	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected menu item id type %T", res.InsertedID)
	}
	item.ID = oid.Hex()

	return nil
}

// UpdateMenuItem applies the non-nil fields of update and returns the stored result.
func (r *MenuRepository) UpdateMenuItem(ctx context.Context, id string, update *domain.MenuItemUpdate) (*domain.MenuItem, error) {
	oid, err := parseObjectID(MenuItemResource, id)
	if err != nil {
		return nil, err
	}

	set := menuItemUpdateToSet(update)
	set = append(set, bson.E{Key: "updatedAt", Value: r.now()})

	var doc menuItemDocument
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, menuItemNotFound(id)
		}
		return nil, fmt.Errorf("failed to update menu item with id %s: %w", id, err)
	}

	item := doc.toDomain()
	return &item, nil
}

// DeleteMenuItem removes an item. Orders that reference it keep their captured name and price.
func (r *MenuRepository) DeleteMenuItem(ctx context.Context, id string) error {
	oid, err := parseObjectID(MenuItemResource, id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete menu item with id %s: %w", id, err)
	}

	if res.DeletedCount == 0 {
		return menuItemNotFound(id)
	}

	return nil
}

func (r *MenuRepository) find(ctx context.Context, filter bson.D) ([]domain.MenuItem, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}

	var docs []menuItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}

	items := make([]domain.MenuItem, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}

	return items, nil
}

func menuItemUpdateToSet(u *domain.MenuItemUpdate) bson.D {
	var set bson.D
	add := func(key string, value any) {
		set = append(set, bson.E{Key: key, Value: value})
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Price != nil {
		add("price", priceToDocument(*u.Price))
	}
	if u.Category != nil {
		add("category", string(*u.Category))
	}
	if u.ImageURL != nil {
		add("imageUrl", *u.ImageURL)
	}
	if u.Ingredients != nil {
		add("ingredients", u.Ingredients)
	}
	if u.Dietary != nil {
		add("dietary", dietaryDocument{
			Vegetarian: u.Dietary.Vegetarian,
			Vegan:      u.Dietary.Vegan,
			GlutenFree: u.Dietary.GlutenFree,
		})
	}
	if u.SpicyLevel != nil {
		add("spicyLevel", *u.SpicyLevel)
	}
	if u.Popular != nil {
		add("popular", *u.Popular)
	}
	if u.Available != nil {
		add("available", *u.Available)
	}
	if u.Customizations != nil {
		add("customizations", customizationsToDocument(u.Customizations))
	}

	return set
}

func parseObjectID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &repository.InvalidIDError{Resource: resource, Value: id}
	}
	return oid, nil
}

func menuItemNotFound(id string) error {
	return &repository.NotFoundError{
		Resource: MenuItemResource,
		Key:      "id",
		Value:    id,
	}
}
