// Package users implements account registration and credential-based login.
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage"
	"github.com/fitstack/coachd/pkg/logger"
)

// Service manages user accounts and issues access tokens.
type Service struct {
	store  storage.UserStore
	issuer *auth.Issuer
	log    *logger.Logger
}

// New creates a user service.
func New(store storage.UserStore, issuer *auth.Issuer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	return &Service{store: store, issuer: issuer, log: log}
}

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Role      user.Role  `json:"role"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date"`
	HeightCM  float64    `json:"height_cm"`
	WeightKG  float64    `json:"weight_kg"`
	Gender    string     `json:"gender"`
}

// Register creates a new account. Usernames and emails are unique across
// all users regardless of role.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Username == "":
		return user.User{}, apperr.Validation("username is required")
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return user.User{}, apperr.Validation("a valid email is required")
	case len(in.Password) < 8:
		return user.User{}, apperr.Validation("password must be at least 8 characters")
	case !in.Role.Valid():
		return user.User{}, apperr.Validation("role must be trainer or client")
	case in.HeightCM < 0 || in.WeightKG < 0:
		return user.User{}, apperr.Validation("height and weight must not be negative")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return user.User{}, apperr.Internal("hashing password", err)
	}

	created, err := s.store.CreateUser(ctx, user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		BirthDate:    in.BirthDate,
		HeightCM:     in.HeightCM,
		WeightKG:     in.WeightKG,
		Gender:       strings.TrimSpace(in.Gender),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return user.User{}, apperr.Conflict("username or email already registered")
		}
		return user.User{}, apperr.Internal("creating user", err)
	}

	s.log.WithField("user_id", created.ID).Info("user registered")
	return created, nil
}

// TokenResponse is the payload returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login verifies the credentials and returns a signed bearer token. A
// missing user and a wrong password produce the same error so login
// attempts cannot probe which usernames exist.
func (s *Service) Login(ctx context.Context, username, password string) (TokenResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenResponse{}, apperr.InvalidCredentials()
	}

	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenResponse{}, apperr.InvalidCredentials()
		}
		return TokenResponse{}, apperr.Internal("looking up user", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return TokenResponse{}, apperr.InvalidCredentials()
	}

	token, err := s.issuer.Issue(u, time.Now())
	if err != nil {
		return TokenResponse{}, apperr.Internal("signing token", err)
	}

	s.log.WithField("user_id", u.ID).Info("user logged in")
	return TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, apperr.NotFound("user not found")
		}
		return user.User{}, apperr.Internal("loading user", err)
	}
	return u, nil
}
