package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subtrack/internal/auth"
	"subtrack/internal/db"
	"subtrack/internal/server"
	"subtrack/internal/storage"
	"subtrack/internal/store"
	"subtrack/internal/uploads"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "migrate",
			Usage: "Apply pending schema migrations before serving",
		},
	},
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if cCtx.Bool("migrate") {
		if err := db.Migrate(ctx, config.DatabaseURL); err != nil {
			return err
		}
		logger.Info("schema migrations applied")
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	subsRepo := store.NewSubcontractorRepository(pool)
	uploadRepo := store.NewUploadRepository(pool)

	certificates := storage.NewCertificateStore(s3Client, config.S3BucketName)
	uploadsService := uploads.NewService(logger, subsRepo, uploadRepo, certificates)

	tokens, err := auth.NewTokenManager(config.JWTSecret, time.Duration(config.TokenTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	srv, err := server.New(
		config,
		logger,
		userRepo,
		subsRepo,
		uploadsService,
		tokens,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
