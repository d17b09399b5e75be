package main

import (
	"context"
	"fmt"

	"subtrack/internal/db"
	"subtrack/internal/seed"
	"subtrack/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with an initial admin login",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Admin display name",
			Value: "Admin",
		},
		&cli.StringFlag{
			Name:  "email",
			Usage: "Admin login email",
			Value: "admin@example.com",
		},
		&cli.StringFlag{
			Name:     "password",
			Usage:    "Admin login password",
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)

		logrus.Info("Seeding admin user...")
		if err := seed.SeedAdminUser(ctx, userRepo, c.String("name"), c.String("email"), c.String("password")); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}

		logrus.Info("Admin user seeded successfully")

		return nil
	},
}
