// migrate manages the submissions database schema from db/migrations.
//
// Usage:
//
//	migrate up        apply all pending migrations
//	migrate down      revert everything
//	migrate steps N   apply N migrations (negative N reverts)
//	migrate version   print the current schema version
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/thehamzam/kyc-idp/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: migrate <up|down|steps N|version>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("opening migration source: %w", err)
	}
	defer m.Close()

	switch cmd := args[0]; cmd {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Println("schema already up to date")
				return nil
			}
			return fmt.Errorf("applying migrations: %w", err)
		}
		log.Println("schema migrated")
		return nil

	case "down":
		if err := m.Down(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Println("nothing to revert")
				return nil
			}
			return fmt.Errorf("reverting migrations: %w", err)
		}
		log.Println("schema reverted")
		return nil

	case "steps":
		if len(args) < 2 {
			return errors.New("steps needs a count, e.g. migrate steps -1")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		if err := m.Steps(n); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Println("schema already up to date")
				return nil
			}
			return fmt.Errorf("stepping migrations: %w", err)
		}
		log.Printf("stepped schema by %d", n)
		return nil

	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Println("no migrations applied yet")
				return nil
			}
			return fmt.Errorf("reading schema version: %w", err)
		}
		if dirty {
			log.Printf("schema at version %d (dirty - a migration failed midway)", v)
		} else {
			log.Printf("schema at version %d", v)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q; usage: migrate <up|down|steps N|version>", cmd)
	}
}
