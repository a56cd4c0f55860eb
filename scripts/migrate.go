// Command migrate applies or rolls back the embedded schema migrations for
// the configured DB_DRIVER.
package main

import (
	"flag"
	"log"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

func main() {
	down := flag.Bool("down", false, "roll back every applied migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Database.Driver == database.DriverMemory {
		log.Fatalf("DB_DRIVER=memory has no schema to migrate")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	dir, verb := migrate.Up, "Applied"
	if *down {
		dir, verb = migrate.Down, "Rolled back"
	}

	n, err := database.Migrate(db, cfg.Database.Driver, dir)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("✅ %s %d migration(s)", verb, n)
}
