package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"fabric-backend/internal/config"
	"fabric-backend/internal/db"
)

// tables cleared by a reset, children first
var tables = []string{
	"expenses",
	"fabric_jobs",
	"rate_config",
}

func main() {
	keepRates := flag.Bool("keep-rates", false, "leave the rate configuration in place")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("   Reset Fabric Database")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL JOBS AND EXPENSES!")
	fmt.Println("Stored bill PDFs are not touched.")
	fmt.Println()

	if !*yes {
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	cfg := config.Load()
	if cfg.Database.Driver != "" && cfg.Database.Driver != "postgres" {
		log.Fatalf("resetdb only supports the postgres driver (configured: %s)", cfg.Database.Driver)
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range tables {
		if table == "rate_config" && *keepRates {
			continue
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			log.Fatalf("Failed to truncate %s: %v", table, err)
		}
		fmt.Printf("  cleared %s\n", table)
	}

	if _, err := tx.Exec(ctx, "ALTER SEQUENCE fabric_jobs_id_seq RESTART WITH 1"); err != nil {
		log.Printf("Warning: Failed to reset sequence fabric_jobs_id_seq: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit reset: %v", err)
	}
	fmt.Println("Database reset complete.")
}
