package postgres

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/semaphore"
)

// NewDBFromURL connects through the pgx stdlib driver using a single
// connection URL. CLI invocations use this path; the server uses NewDB
// with discrete config fields.
func NewDBFromURL(dbURL string) (*DB, error) {
	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DB{
		DB:  db,
		sem: semaphore.NewWeighted(10),
	}, nil
}
