// This file implements the MongoDB movie repository.  Movies are keyed by
// the catalog id stored in _id, so the primary key index is also the
// uniqueness guard for concurrent creates.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/quickshow/internal/model"
)

// MoviesCollection is the collection holding cached catalog movies.
const MoviesCollection = "movies"

// MongoMovieRepo manages persistence for cached catalog movies in MongoDB.
type MongoMovieRepo struct {
	coll *mongo.Collection
}

// NewMongoMovieRepo constructs a MongoMovieRepo on the movies collection.
func NewMongoMovieRepo(db *mongo.Database) *MongoMovieRepo {
	return &MongoMovieRepo{coll: db.Collection(MoviesCollection)}
}

// FindByID retrieves a movie by its catalog id.  It returns ErrMovieNotFound
// when no document matches.
func (r *MongoMovieRepo) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	var m model.Movie
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a new movie document.  A duplicate _id yields
// ErrDuplicateMovie.
func (r *MongoMovieRepo) Create(ctx context.Context, m *model.Movie) error {
	normalizeMovie(m)
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateMovie, m.ID)
		}
		return err
	}
	return nil
}
