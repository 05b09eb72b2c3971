package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// OpenMongo connects to MongoDB, pings the primary and returns the client and
// the named database.  The caller owns the client and must Disconnect it.
func OpenMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, client.Database(dbName), nil
}

// EnsureMongoIndexes creates the secondary index used to list a movie's
// shows in time order.  It is not unique: identical add-show
// requests produce duplicate shows.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("shows").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "movie", Value: 1}, {Key: "showDateTime", Value: 1}},
		Options: options.Index().SetName("movie_showDateTime"),
	})
	if err != nil {
		return fmt.Errorf("ensure shows index: %w", err)
	}
	return nil
}
