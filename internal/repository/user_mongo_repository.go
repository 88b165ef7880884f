package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialapi/internal/model"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "users"

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository builds a MongoDB-backed repository.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(UsersCollection)}
}

// EnsureMongoIndexes creates the unique indexes the repository relies on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func hiddenProjection() bson.M {
	projection := bson.M{"_id": 0}
	for _, field := range model.HiddenFields {
		projection[field] = 0
	}
	return projection
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	user.AssignID()
	user.Normalize()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *model.User) error {
	user.Normalize()
	user.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"username":      user.Username,
		"slug":          user.Slug,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"is_verified":   user.IsVerified,
		"updated_at":    user.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if user.OTPHash == "" {
		update["$unset"] = bson.M{"otp_hash": ""}
	} else {
		set["otp_hash"] = user.OTPHash
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": user.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"id": id}, hiddenProjection())
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, hiddenProjection())
}

func (r *mongoUserRepository) FindByIDWithCredentials(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"id": id}, bson.M{"_id": 0})
}

func (r *mongoUserRepository) FindByEmailWithCredentials(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, bson.M{"_id": 0})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter, projection bson.M) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(projection)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
