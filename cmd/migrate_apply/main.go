package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cashdunia/internal/db"
	"cashdunia/internal/logger"
	"cashdunia/internal/migrations"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	if !*apply {
		names, err := migrations.Names()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn, 2)
	defer pool.Close()

	applied, err := migrations.Apply(context.Background(), pool)
	if err != nil {
		logger.Fatal("apply migrations", "error", err)
	}
	if len(applied) == 0 {
		fmt.Println("schema is up to date")
		return
	}
	for _, name := range applied {
		fmt.Printf("applied %s\n", name)
	}
}
