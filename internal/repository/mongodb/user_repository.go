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
	UserResource = "user"
)

// UserRepository provides storage for user accounts
type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewUserRepository creates a UserRepository over the users collection of db.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll: db.Collection(UsersCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser stores a new account. A duplicate email yields *repository.ConflictError.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	now := r.now()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}

	res, err := r.coll.InsertOne(ctx, userToDocument(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return emailConflict(user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected user id type %T", res.InsertedID)
	}
	user.ID = oid.Hex()

	return nil
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "email", email)
}

// GetUserByID retrieves a user by hex id
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseObjectID(UserResource, id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, "id", id)
}

// UpdateUser overwrites the profile fields and password hash of an existing user.
func (r *UserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	oid, err := parseObjectID(UserResource, user.ID)
	if err != nil {
		return err
	}

	user.UpdatedAt = r.now()
	set := bson.D{
		{Key: "name", Value: user.Name},
		{Key: "email", Value: user.Email},
		{Key: "phone", Value: user.Phone},
		{Key: "password", Value: user.PasswordHash},
		{Key: "updatedAt", Value: user.UpdatedAt},
	}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return emailConflict(user.Email)
		}
		return fmt.Errorf("failed to update user with id %s: %w", user.ID, err)
	}

	if res.MatchedCount == 0 {
		return &repository.NotFoundError{Resource: UserResource, Key: "id", Value: user.ID}
	}

	return nil
}

// ListUsers returns every account ordered by creation time.
func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}

	return users, nil
}

// GetRoles returns the roles held by the user with the given id.
func (r *UserRepository) GetRoles(ctx context.Context, userID string) ([]string, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return []string{user.Role}, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D, key, value string) (*domain.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &repository.NotFoundError{
				Resource: UserResource,
				Key:      key,
				Value:    value,
			}
		}
		return nil, fmt.Errorf("failed to retrieve user with %s %s: %w", key, value, err)
	}

	user := doc.toDomain()
	return &user, nil
}

func emailConflict(email string) error {
	return &repository.ConflictError{
		Resource: UserResource,
		Key:      "email",
		Value:    email,
	}
}
