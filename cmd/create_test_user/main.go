package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"cashdunia/internal/db"
	"cashdunia/internal/economy"
	"cashdunia/internal/repository"
	"cashdunia/internal/service"
)

func main() {
	name := flag.String("name", "Tester", "display name")
	email := flag.String("email", "tester@example.com", "email")
	flag.Parse()

	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn, 2)
	defer pool.Close()

	cal, err := economy.LoadCalendar(os.Getenv("REFERENCE_TZ"))
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}

	engine := service.New(service.Options{
		Store:    repository.NewPostgresStore(pool),
		Calendar: cal,
	})

	ctx := context.Background()
	u, err := engine.Accounts.Register(ctx, *name, *email)
	if err != nil {
		log.Fatalf("create user failed: %v", err)
	}
	log.Printf("user created id=%d referral_code=%s\n", u.ID, u.ReferralCode)

	// verify read
	u2, err := engine.Accounts.Profile(ctx, u.ID)
	if err != nil {
		log.Fatalf("get profile failed: %v", err)
	}
	log.Printf("fetched user id=%d name=%s level=%d coins=%d\n", u2.ID, u2.Name, u2.CurrentLevel, u2.Coins)

	// initialize JWT and print token
	service.InitJWT(secret, 30*24*time.Hour)
	token, err := service.GenerateJWT(u2.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
