package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"subtrack/internal/auth"
	"subtrack/pkg/types"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authenticatedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	User  authenticatedUser `json:"user"`
	Token string            `json:"token"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := s.readJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = types.NormalizeEmail(req.Email)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "please provide all required fields")
		return
	}

	if !types.ValidEmail(req.Email) {
		s.respondError(w, http.StatusBadRequest, "email is not a valid address")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &types.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateEmail) {
			s.respondError(w, http.StatusBadRequest, "email already in use")
			return
		}
		s.logger.WithError(err).Error("failed to create user")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.respondData(w, http.StatusCreated, authenticatedUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := s.readJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = types.NormalizeEmail(req.Email)

	if req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "please provide email and password")
		return
	}

	user, err := s.userRepo.UserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			s.respondError(w, http.StatusUnauthorized, types.ErrInvalidCredentials.Error())
			return
		}
		s.logger.WithError(err).Error("failed to fetch user for login")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, types.ErrInvalidCredentials.Error())
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue token")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.setAccessTokenCookie(w, token)

	s.respondData(w, http.StatusOK, loginResponse{
		User: authenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
		Token: token,
	})
}

// setAccessTokenCookie mirrors the token into an encrypted cookie so
// browser clients on the same origin can skip the Authorization header.
func (s *Service) setAccessTokenCookie(w http.ResponseWriter, token string) {
	encoded, err := s.cookie.Encode(s.config.CookieName, token)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode access token cookie")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(s.config.TokenTTLHours) * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.config.Environment != "development",
	})
}
