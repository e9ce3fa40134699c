package db

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongo connects to the MongoDB server at db.url and returns the db.name
// database. The caller owns the client and must disconnect it.
func NewMongo(ctx context.Context) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(viper.GetString("db.url")))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB, %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB, %w", err)
	}

	database := client.Database(viper.GetString("db.name"))

	// One account per email
	_, err = database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create users email index, %w", err)
	}

	return database, nil
}
