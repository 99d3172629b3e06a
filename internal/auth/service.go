package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrRevokedToken       = errors.New("token has been revoked")
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}

type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Token is what a successful login hands back to the client.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Service struct {
	users       UserStore
	revocations RevocationStore
	issuer      *Issuer
	logger      *slog.Logger
	hashCost    int
}

func NewService(users UserStore, revocations RevocationStore, issuer *Issuer, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		revocations: revocations,
		issuer:      issuer,
		logger:      logger,
		hashCost:    bcrypt.DefaultCost,
	}
}

func (s *Service) AddUser(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return User{}, ErrWeakPassword
	}
	if len(password) > maxPasswordBytes {
		return User{}, ErrPasswordTooLong
	}

	hash, err := HashPassword(password, s.hashCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, email, hash)
	if err != nil {
		return User{}, err
	}
	s.logger.Info("user added", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(u.PasswordHash, password) {
		return Token{}, ErrInvalidCredentials
	}

	signed, claims, err := s.issuer.Issue(u.ID, u.Email)
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Authenticate verifies the bearer token and rejects it once signed out.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// SignOut ends the session bound to claims. The revocation lives exactly as
// long as the token would have.
func (s *Service) SignOut(ctx context.Context, claims *Claims) error {
	ttl := claims.ExpiresAt.Time.Sub(s.issuer.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("sign out failed", "user_id", claims.UserID, "error", err)
		return err
	}
	s.logger.Info("signed out", "user_id", claims.UserID)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
