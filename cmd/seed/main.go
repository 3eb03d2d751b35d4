package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/pharmadocs/config"
	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/internal/domain/repository"
	pginfra "github.com/oksasatya/pharmadocs/internal/infrastructure/postgres"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

func strPtr(s string) *string { return &s }

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL, 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)

	email := "demo@pharmacy.test"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u := &entity.User{Email: application.NormalizeEmail(email), Password: hash}
	err = users.Create(ctx, u)
	if errors.Is(err, repository.ErrConflict) {
		u, err = users.GetByEmail(ctx, u.Email)
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, password)

	p, err := profiles.Ensure(ctx, u.ID)
	if err != nil {
		log.Fatalf("failed to ensure profile: %v", err)
	}
	if err := profiles.Update(ctx, u.ID, entity.ProfilePatch{
		PharmacyName:  strPtr("Demo Pharmacy"),
		LicenseNumber: strPtr("DL-0001"),
		Phone:         strPtr("+91 98765 43210"),
		Address:       strPtr("12 Market Road"),
	}); err != nil {
		log.Fatalf("failed to update profile: %v", err)
	}
	fmt.Printf("profile ensured: id=%s owner=%s\n", p.ID, u.ID)
}
