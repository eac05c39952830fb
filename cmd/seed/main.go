package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ewaste_pickup_backend/internal/auth/repository"
	authservice "ewaste_pickup_backend/internal/auth/service"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/db"
	"ewaste_pickup_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("seeding accounts")

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	svc := authservice.New(repository.New(pool), cfg, log)

	accounts := []authservice.RegisterInput{
		{Username: "admin", Password: getEnv("SEED_ADMIN_PASSWORD", "admin123"), Role: authz.RoleAdmin},
		{Username: "user1", Password: getEnv("SEED_USER_PASSWORD", "user123"), Role: authz.RoleUser},
	}
	agentPassword := getEnv("SEED_DELIVERY_PASSWORD", "delivery123")
	for i := 1; i <= getPositiveIntEnv("SEED_DELIVERY_AGENTS", 3); i++ {
		accounts = append(accounts, authservice.RegisterInput{
			Username: fmt.Sprintf("delivery%d", i),
			Password: agentPassword,
			Role:     authz.RoleDelivery,
		})
	}

	for _, account := range accounts {
		user, created, err := svc.EnsureUser(ctx, account)
		if err != nil {
			log.Error("failed to seed account", "username", account.Username, "error", err)
			panic("failed to seed account " + account.Username + ": " + err.Error())
		}
		log.Info("account ready", "username", user.Username, "role", user.Role, "created", created)
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getPositiveIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
