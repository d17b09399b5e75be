package main

import (
	"context"

	"subtrack/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Apply pending schema migrations",
	Action: func(c *cli.Context) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		if err := db.Migrate(context.Background(), config.DatabaseURL); err != nil {
			return err
		}

		logrus.Info("schema migrations applied")
		return nil
	},
}
