package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/quickshow/internal/database"
	"github.com/iliyamo/quickshow/internal/model"
)

// These tests talk to real servers and only run when MONGODB_URI or
// MYSQL_TEST_DSN is set.

func TestMongoRepositories(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, db, err := database.OpenMongo(ctx, uri, fmt.Sprintf("quickshow_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	}()
	if err := database.EnsureMongoIndexes(ctx, db); err != nil {
		t.Fatal(err)
	}

	movies := NewMongoMovieRepo(db)
	if _, err := movies.FindByID(ctx, "550"); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
	if err := movies.Create(ctx, &model.Movie{ID: "550", Title: "Fight Club"}); err != nil {
		t.Fatal(err)
	}
	if err := movies.Create(ctx, &model.Movie{ID: "550", Title: "again"}); !errors.Is(err, ErrDuplicateMovie) {
		t.Fatalf("expected ErrDuplicateMovie, got %v", err)
	}
	got, err := movies.FindByID(ctx, "550")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Fight Club" || got.Genres == nil || got.Casts == nil {
		t.Fatalf("unexpected movie %+v", got)
	}

	shows := NewMongoShowRepo(db)
	batch := []model.Show{
		model.NewShow("550", time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC), 12),
		model.NewShow("550", time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), 12),
	}
	if err := shows.InsertMany(ctx, batch); err != nil {
		t.Fatal(err)
	}
	for _, s := range batch {
		if s.ID == "" {
			t.Fatalf("id not assigned")
		}
	}
	var raw bson.Raw
	if err := db.Collection(ShowsCollection).FindOne(ctx, bson.D{{Key: "movie", Value: "550"}}).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if v := raw.Lookup("occupiedSeats"); v.Type != bson.TypeEmbeddedDocument {
		t.Fatalf("occupiedSeats not stored as a document: %v", v.Type)
	}

	bad := []model.Show{batch[0], {Movie: "550"}}
	if err := shows.InsertMany(ctx, bad); !errors.Is(err, model.ErrShowDateTimeRequired) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	n, err := db.Collection(ShowsCollection).CountDocuments(ctx, bson.D{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("failed bulk insert must write nothing, have %d shows", n)
	}
}

func TestMySQLRepositories(t *testing.T) {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := database.OpenDSN(dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		t.Fatal(err)
	}
	id := fmt.Sprintf("t%d", time.Now().UnixNano())
	defer func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM shows WHERE movie_id = ?", id)
		_, _ = db.ExecContext(context.Background(), "DELETE FROM movies WHERE id = ?", id)
	}()

	movies := NewMovieRepo(db)
	if _, err := movies.FindByID(ctx, id); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
	m := &model.Movie{ID: id, Title: "Fight Club", Genres: []model.Genre{{ID: 18, Name: "Drama"}}}
	if err := movies.Create(ctx, m); err != nil {
		t.Fatal(err)
	}
	if err := movies.Create(ctx, &model.Movie{ID: id}); !errors.Is(err, ErrDuplicateMovie) {
		t.Fatalf("expected ErrDuplicateMovie, got %v", err)
	}
	got, err := movies.FindByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Genres) != 1 || got.Genres[0].Name != "Drama" || got.Casts == nil {
		t.Fatalf("unexpected movie %+v", got)
	}

	shows := NewShowRepo(db)
	batch := []model.Show{
		model.NewShow(id, time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC), 12),
		model.NewShow(id, time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC), 12),
	}
	if err := shows.InsertMany(ctx, batch); err != nil {
		t.Fatal(err)
	}
	var seats string
	if err := db.QueryRowContext(ctx, "SELECT occupied_seats FROM shows WHERE id = ?", batch[1].ID).Scan(&seats); err != nil {
		t.Fatal(err)
	}
	if seats != "{}" {
		t.Fatalf("occupied_seats should read back as {}, got %q", seats)
	}
}
