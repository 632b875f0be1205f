package main

import (
	"context"
	"log"
	"os"
	"strings"

	"ttestcalc/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}

	migrator := migration.NewRunner()

	if databaseURL == "-" || databaseURL == "--print" {
		// print the DDL without connecting
		log.SetFlags(0)
		log.Println(strings.Join(migrator.Statements(), ";\n\n") + ";")
		return
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate [database_url|--print] (or set DATABASE_URL)")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("Applying schema %s", migrator.Version())
	if err := migrator.Run(context.Background(), db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migration complete")
}
