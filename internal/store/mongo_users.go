package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"giftlink/backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "users"

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"` // hashed
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MongoUsers struct {
	C *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{C: db.Collection(usersCollection)}
}

func (s *MongoUsers) Create(ctx context.Context, u *model.User) error {
	doc := userDoc{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}

	res, err := s.C.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}

		return fmt.Errorf("failed to insert user, %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}

	return nil
}

func (s *MongoUsers) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUsers) ByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoUsers) Update(ctx context.Context, id string, upd UserUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	set := bson.M{"updatedAt": upd.UpdatedAt}

	if upd.FirstName != nil {
		set["firstName"] = *upd.FirstName
	}

	if upd.LastName != nil {
		set["lastName"] = *upd.LastName
	}

	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}

	res, err := s.C.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user, %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoUsers) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc

	err := s.C.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return doc.toModel(), nil
}
