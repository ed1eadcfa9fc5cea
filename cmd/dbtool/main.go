package main

import (
	"database/sql"
	"detour-route-service/internal/adapters/repositories"
	"detour-route-service/internal/config"
	"detour-route-service/internal/platform/db"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool prepares a PostgreSQL database: schema plus stop catalog seed.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("CATALOG_SEED_PATH", "data/seeds/catalog.json")
	if err := initAndSeed(conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding catalog...")
	if err := repositories.SeedFromJSON(conn, db.Postgres, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
