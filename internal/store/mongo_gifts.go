package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"giftlink/backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const giftsCollection = "gifts"

type giftDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	AppID       string             `bson:"id,omitempty"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Condition   string             `bson:"condition"`
	AgeDays     int                `bson:"age_days"`
	AgeYears    float64            `bson:"age_years"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	DateAdded   int64              `bson:"date_added"`
	CreatedBy   string             `bson:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func newGiftDoc(g *model.Gift) giftDoc {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	if g.DateAdded == 0 {
		g.DateAdded = g.CreatedAt.Unix()
	}

	return giftDoc{
		AppID:       g.AppID,
		Name:        g.Name,
		Category:    g.Category,
		Condition:   g.Condition,
		AgeDays:     g.AgeDays,
		AgeYears:    g.AgeYears,
		Description: g.Description,
		Image:       g.Image,
		DateAdded:   g.DateAdded,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
	}
}

func (d *giftDoc) toModel() model.Gift {
	return model.Gift{
		ID:          d.ID.Hex(),
		AppID:       d.AppID,
		Name:        d.Name,
		Category:    d.Category,
		Condition:   d.Condition,
		AgeDays:     d.AgeDays,
		AgeYears:    d.AgeYears,
		Description: d.Description,
		Image:       d.Image,
		DateAdded:   d.DateAdded,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
	}
}

type MongoGifts struct {
	C *mongo.Collection
}

func NewMongoGifts(db *mongo.Database) *MongoGifts {
	return &MongoGifts{C: db.Collection(giftsCollection)}
}

func (s *MongoGifts) All(ctx context.Context) ([]model.Gift, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoGifts) ByID(ctx context.Context, id string) (*model.Gift, error) {
	filters := make([]bson.M, 0, 2)

	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filters = append(filters, bson.M{"_id": oid})
	}
	filters = append(filters, bson.M{"id": id})

	for _, filter := range filters {
		var doc giftDoc

		err := s.C.FindOne(ctx, filter).Decode(&doc)
		if err == nil {
			g := doc.toModel()
			return &g, nil
		}

		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to fetch gift, %w", err)
		}
	}

	return nil, ErrNotFound
}

func (s *MongoGifts) Create(ctx context.Context, g *model.Gift) error {
	res, err := s.C.InsertOne(ctx, newGiftDoc(g))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}

		return fmt.Errorf("failed to insert gift, %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		g.ID = oid.Hex()
	}

	return nil
}

func (s *MongoGifts) Search(ctx context.Context, f GiftFilter) ([]model.Gift, error) {
	filter := bson.M{}

	if f.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
	}

	if f.Category != "" {
		filter["category"] = f.Category
	}

	if f.Condition != "" {
		filter["condition"] = f.Condition
	}

	if f.MaxAgeYears != nil {
		filter["age_years"] = bson.M{"$lte": *f.MaxAgeYears}
	}

	return s.find(ctx, filter)
}

func (s *MongoGifts) Count(ctx context.Context) (int64, error) {
	n, err := s.C.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count gifts, %w", err)
	}

	return n, nil
}

func (s *MongoGifts) Import(ctx context.Context, gifts []model.Gift) error {
	if len(gifts) == 0 {
		return nil
	}

	docs := make([]any, len(gifts))
	for i := range gifts {
		docs[i] = newGiftDoc(&gifts[i])
	}

	if _, err := s.C.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to import gifts, %w", err)
	}

	return nil
}

func (s *MongoGifts) find(ctx context.Context, filter bson.M) ([]model.Gift, error) {
	cur, err := s.C.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query gifts, %w", err)
	}
	defer cur.Close(ctx)

	var docs []giftDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode gifts, %w", err)
	}

	gifts := make([]model.Gift, len(docs))
	for i := range docs {
		gifts[i] = docs[i].toModel()
	}

	return gifts, nil
}
