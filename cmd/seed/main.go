package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

var demoUsers = []entity.NewUserParams{
	{
		Username: "CyberGamer92",
		Name:     "John",
		Lastname: "Doe",
		Address:  "123 Main St",
		Gender:   "male",
		Email:    "user1@example.com",
		Password: "password1",
		Bio:      "Passionate gamer and tech enthusiast",
	},
	{
		Username: "TechGirl",
		Name:     "Jane",
		Lastname: "Smith",
		Address:  "456 Elm St",
		Gender:   "female",
		Email:    "user2@example.com",
		Password: "password2",
		Bio:      "Software engineer who loves building things",
	},
	{
		Username: "MusicLover",
		Name:     "Alice",
		Lastname: "Wonderland",
		Address:  "789 Oak St",
		Gender:   "female",
		Email:    "user3@example.com",
		Password: "password3",
		Bio:      "Music is my life",
	},
}

// Seeds activated demo accounts. Existing usernames or emails are skipped.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), ConnectAttempts: cfg.DBConnectTry}, logger)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool, logger)
	for _, p := range demoUsers {
		if err := seed(ctx, repo, logger, p); err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				logger.WithField("username", p.Username).Info("already seeded")
				continue
			}
			logger.WithError(err).WithField("username", p.Username).Fatal("seed failed")
		}
	}
}

func seed(ctx context.Context, repo repository.UserRepository, logger *logrus.Logger, p entity.NewUserParams) error {
	u, err := entity.CreateUser(p)
	if err != nil {
		return err
	}
	if err := repo.Create(ctx, u); err != nil {
		return err
	}
	if err := repo.Activate(ctx, u.ID()); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"id": u.ID(), "email": p.Email, "password": p.Password}).Info("seeded user")
	return nil
}
