package postgres

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/thehamzam/kyc-idp/internal/config"
)

// NewDB opens the submissions database over the pgx stdlib driver.
// sqlx.Connect pings on open, so a bad DSN fails here rather than on the
// first query.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening submissions database: %w", err)
	}

	// A bulk upload opens up to one connection per in-flight file, so the
	// pool is sized from config rather than the driver defaults. Recycling
	// connections keeps long-lived pools from pinning stale server state.
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
