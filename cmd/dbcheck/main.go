package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"nursery/internal/config"

	"github.com/jackc/pgx/v5"
)

// dbcheck connects with the service's database settings and reports what it finds.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT to_regclass('public.plants') IS NOT NULL").Scan(&exists)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if !exists {
		fmt.Println("plants table not created yet (the API creates it on startup)")
		return nil
	}

	var count int64
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM plants").Scan(&count); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	fmt.Printf("plants table holds %d rows\n", count)

	return nil
}
