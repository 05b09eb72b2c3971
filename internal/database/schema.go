package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the two tables the MySQL backend needs.  occupied_seats is
// JSON NOT NULL so a show's seat map can never be stored as NULL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id                VARCHAR(32)   NOT NULL,
		title             VARCHAR(512)  NOT NULL,
		overview          TEXT          NOT NULL,
		poster_path       VARCHAR(255)  NOT NULL DEFAULT '',
		backdrop_path     VARCHAR(255)  NOT NULL DEFAULT '',
		release_date      VARCHAR(32)   NOT NULL DEFAULT '',
		original_language VARCHAR(16)   NOT NULL DEFAULT '',
		tagline           VARCHAR(1024) NOT NULL DEFAULT '',
		genres            JSON          NOT NULL,
		casts             JSON          NOT NULL,
		vote_average      DOUBLE        NOT NULL DEFAULT 0,
		runtime           INT           NOT NULL DEFAULT 0,
		created_at        DATETIME(3)   NOT NULL,
		updated_at        DATETIME(3)   NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS shows (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		movie_id       VARCHAR(32)     NOT NULL,
		show_date_time DATETIME        NOT NULL,
		show_price     DOUBLE          NOT NULL,
		occupied_seats JSON            NOT NULL,
		created_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_shows_movie_time (movie_id, show_date_time)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates missing tables.  It is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
