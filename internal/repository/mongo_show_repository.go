// This file implements the MongoDB show repository.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/quickshow/internal/model"
)

// ShowsCollection is the collection holding scheduled shows.
const ShowsCollection = "shows"

// showDocument is the stored form of a show.  OccupiedSeats has no
// omitempty so an empty map is written as {} and never dropped.
type showDocument struct {
	ID            bson.ObjectID     `bson:"_id"`
	Movie         string            `bson:"movie"`
	ShowDateTime  time.Time         `bson:"showDateTime"`
	ShowPrice     float64           `bson:"showPrice"`
	OccupiedSeats map[string]string `bson:"occupiedSeats"`
	CreatedAt     time.Time         `bson:"createdAt"`
	UpdatedAt     time.Time         `bson:"updatedAt"`
}

func newShowDocument(s model.Show, now time.Time) showDocument {
	return showDocument{
		ID:            bson.NewObjectID(),
		Movie:         s.Movie,
		ShowDateTime:  s.ShowDateTime.UTC(),
		ShowPrice:     s.ShowPrice,
		OccupiedSeats: s.OccupiedSeats,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MongoShowRepo manages persistence for shows in MongoDB.
type MongoShowRepo struct {
	coll *mongo.Collection
}

// NewMongoShowRepo constructs a MongoShowRepo on the shows collection.
func NewMongoShowRepo(db *mongo.Database) *MongoShowRepo {
	return &MongoShowRepo{coll: db.Collection(ShowsCollection)}
}

// InsertMany validates every show before writing any of them, then inserts
// the batch with one ordered InsertMany call.  Generated ObjectIDs are
// assigned back to the slice elements as hex strings.
func (r *MongoShowRepo) InsertMany(ctx context.Context, shows []model.Show) error {
	if len(shows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]showDocument, 0, len(shows))
	for i, s := range shows {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("show %d: %w", i, err)
		}
		docs = append(docs, newShowDocument(s, now))
	}
	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return err
	}
	for i := range shows {
		shows[i].ID = docs[i].ID.Hex()
	}
	return nil
}
