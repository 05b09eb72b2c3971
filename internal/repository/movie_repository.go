// This file implements the MySQL movie repository.  Genre and cast lists
// are stored as JSON columns so the row mirrors the document shape used by
// the MongoDB backend.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/quickshow/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// MovieRepo manages persistence for cached catalog movies in MySQL.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// FindByID retrieves a movie by its catalog id.  It returns ErrMovieNotFound
// when there is no matching row.
func (r *MovieRepo) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	const q = `SELECT id, title, overview, poster_path, backdrop_path, release_date, original_language,
                      tagline, genres, casts, vote_average, runtime, created_at, updated_at
               FROM movies WHERE id = ?`
	var (
		m             model.Movie
		genres, casts []byte
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.Overview, &m.PosterPath, &m.BackdropPath, &m.ReleaseDate, &m.OriginalLanguage,
		&m.Tagline, &genres, &casts, &m.VoteAverage, &m.Runtime, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(genres, &m.Genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	if err := json.Unmarshal(casts, &m.Casts); err != nil {
		return nil, fmt.Errorf("decode casts: %w", err)
	}
	return &m, nil
}

// Create inserts a new movie.  Nil genre/cast lists are stored as empty JSON
// arrays and the timestamps are populated on the given struct.  A primary
// key collision yields ErrDuplicateMovie.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	normalizeMovie(m)
	genres, err := json.Marshal(m.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	casts, err := json.Marshal(m.Casts)
	if err != nil {
		return fmt.Errorf("encode casts: %w", err)
	}
	const q = `INSERT INTO movies (id, title, overview, poster_path, backdrop_path, release_date, original_language,
                                  tagline, genres, casts, vote_average, runtime, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		m.ID, m.Title, m.Overview, m.PosterPath, m.BackdropPath, m.ReleaseDate, m.OriginalLanguage,
		m.Tagline, genres, casts, m.VoteAverage, m.Runtime, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return fmt.Errorf("%w: %s", ErrDuplicateMovie, m.ID)
		}
		return err
	}
	return nil
}

// normalizeMovie fills the fields every backend must persist the same way:
// non-nil lists and UTC timestamps.
func normalizeMovie(m *model.Movie) {
	if m.Genres == nil {
		m.Genres = []model.Genre{}
	}
	if m.Casts == nil {
		m.Casts = []model.CastMember{}
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
