package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"subtrack/internal/auth"
	"subtrack/internal/store"
	"subtrack/internal/uploads"
	"subtrack/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	userRepo *store.UserRepository
	subsRepo *store.SubcontractorRepository
	uploads  *uploads.Service

	tokens *auth.TokenManager
	cookie *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	userRepo *store.UserRepository,
	subsRepo *store.SubcontractorRepository,
	uploadsService *uploads.Service,
	tokens *auth.TokenManager,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("COOKIE_HASH_KEY is not valid base64: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("COOKIE_BLOCK_KEY is not valid base64: %w", err)
	}
	// an unset block key means signed-but-unencrypted cookies
	if len(blockKey) == 0 {
		blockKey = nil
	}

	s := &Service{
		logger: logger,
		config: config,

		userRepo: userRepo,
		subsRepo: subsRepo,
		uploads:  uploadsService,

		tokens: tokens,
		cookie: securecookie.New(hashKey, blockKey),
	}

	s.buildRouter(mux)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           s.corsMiddleware(mux),
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleWelcome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/dashboard", s.handleDashboard, http.MethodGet)

		r.HandleFunc("/api/subcontractors", s.handleCreateSubcontractor, http.MethodPost)
		r.HandleFunc("/api/subcontractors", s.handleListSubcontractors, http.MethodGet)
		r.HandleFunc("/api/subcontractors/:id", s.handleGetSubcontractor, http.MethodGet)
		r.HandleFunc("/api/subcontractors/:id", s.handleUpdateSubcontractor, http.MethodPut)
		r.HandleFunc("/api/subcontractors/:id", s.handleDeleteSubcontractor, http.MethodDelete)

		r.HandleFunc("/api/subcontractors/:id/upload", s.handleUploadCertificate, http.MethodPost)
		r.HandleFunc("/api/subcontractors/:id/uploads", s.handleListUploads, http.MethodGet)
	})
}

func (s *Service) handleWelcome(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]string{"message": "Welcome to CRM API"})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
