package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainUser "github.com/slotswap/slotswap/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service resolves credentials to a stable user identity. Tokens are
// HS256 JWTs carrying the user id as subject; the same token is used
// for HTTP calls and for the notification channel handshake.
type Service struct {
	users    domainUser.Repository
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
}

func NewService(users domainUser.Repository, secret []byte, tokenTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Result carries an authenticated user and a fresh token.
type Result struct {
	User  *domainUser.User
	Token string
}

// Register creates a user and logs them in.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (*Result, error) {
	email = domainUser.NormalizeEmail(email)
	if err := domainUser.ValidateEmail(email); err != nil {
		return nil, err
	}
	if displayName == "" {
		return nil, domainUser.ErrDisplayNameRequired
	}
	if err := domainUser.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := domainUser.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domainUser.User{
		UserID:       uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	token, err := s.issueToken(u.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.UserID.String()).Msg("user registered")
	return &Result{User: u, Token: token}, nil
}

// Login authenticates an email/password pair.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	email = domainUser.NormalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !domainUser.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issueToken(u.UserID)
	if err != nil {
		return nil, err
	}
	return &Result{User: u, Token: token}, nil
}

// Authenticate verifies a token and resolves its user. This is the
// identity gate for both HTTP requests and channel subscriptions.
func (s *Service) Authenticate(ctx context.Context, token string) (*domainUser.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}

func (s *Service) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
