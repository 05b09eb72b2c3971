// This file implements the MySQL show repository.  Shows are only ever
// inserted here; the seat map column is JSON NOT NULL and is always written
// as an object, so an empty mapping reads back as {} rather than NULL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/quickshow/internal/model"
)

// maxShowsPerStatement keeps each multi-row INSERT well under the MySQL
// placeholder limit (65535).
const maxShowsPerStatement = 1000

// ShowRepo manages persistence for shows in MySQL.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// InsertMany persists all shows or none.  Every record is validated before
// anything is written, and the rows are inserted inside one transaction in
// batches of maxShowsPerStatement.  The generated ids are assigned back to
// the slice elements only after the commit succeeds.
func (r *ShowRepo) InsertMany(ctx context.Context, shows []model.Show) error {
	if len(shows) == 0 {
		return nil
	}
	for i := range shows {
		if err := shows[i].Validate(); err != nil {
			return fmt.Errorf("show %d: %w", i, err)
		}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ids := make([]string, 0, len(shows))
	for start := 0; start < len(shows); start += maxShowsPerStatement {
		end := min(start+maxShowsPerStatement, len(shows))
		first, err := r.insertBatch(ctx, tx, shows[start:end])
		if err != nil {
			return err
		}
		// A multi-row INSERT reports the id of its first row; InnoDB assigns
		// the rest consecutively for simple inserts.
		for i := 0; i < end-start; i++ {
			ids = append(ids, strconv.FormatInt(first+int64(i), 10))
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	for i := range shows {
		shows[i].ID = ids[i]
	}
	return nil
}

// insertBatch writes one multi-row INSERT and returns the first generated id.
func (r *ShowRepo) insertBatch(ctx context.Context, tx *sql.Tx, batch []model.Show) (int64, error) {
	query, args, err := buildShowInsert(batch)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// buildShowInsert renders one INSERT statement with a placeholder group per
// show.
func buildShowInsert(batch []model.Show) (string, []interface{}, error) {
	var b strings.Builder
	b.WriteString(`INSERT INTO shows (movie_id, show_date_time, show_price, occupied_seats) VALUES `)
	args := make([]interface{}, 0, len(batch)*4)
	for i, s := range batch {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?)")
		seats, err := json.Marshal(s.OccupiedSeats)
		if err != nil {
			return "", nil, fmt.Errorf("encode occupied seats: %w", err)
		}
		args = append(args, s.Movie, s.ShowDateTime.UTC(), s.ShowPrice, seats)
	}
	return b.String(), args, nil
}
