package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todohub/internal/logger"
	"todohub/internal/models"
	"todohub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// AuthService handles registration, credential verification and tokens.
type AuthService struct {
	users      repository.Users
	activity   repository.Activity
	signingKey []byte
	tokenTTL   time.Duration
	bcryptCost int
	log        *logger.Logger
}

func NewAuthService(users repository.Users, activity repository.Activity, cfg Config, log *logger.Logger) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		activity:   activity,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   ttl,
		bcryptCost: cost,
		log:        log,
	}
}

// validateRegistration collects every violated rule into one error.
func validateRegistration(in RegisterInput) error {
	var msgs []string
	if len(in.Username) < minUsernameLen {
		msgs = append(msgs, "username must be at least 3 characters")
	}
	if !strings.Contains(in.Email, "@") {
		msgs = append(msgs, "email must contain @")
	}
	if len(in.Password) < minPasswordLen {
		msgs = append(msgs, "password must be at least 6 characters")
	}
	return newValidationError(msgs)
}

// Register validates input, hashes the password and creates the user.
// The bcrypt call runs here, before any store access, so the deliberately
// slow hash never blocks the store.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if err := validateRegistration(in); err != nil {
		return AuthResult{}, err
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if existing != nil {
		return AuthResult{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	id, err := s.users.Create(ctx, in.Username, in.Email, string(hash), now)
	if err != nil {
		// A racing registration can beat the pre-check to the insert.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, err
	}

	user := models.User{
		ID:        id,
		Username:  in.Username,
		Email:     in.Email,
		CreatedAt: now,
	}

	token, err := s.issueToken(Identity{ID: user.ID, Username: user.Username})
	if err != nil {
		return AuthResult{}, err
	}

	s.appendActivity(ctx, models.ActivityEvent{
		OwnerID: user.ID,
		Type:    models.EventUserRegistered,
		Message: "user registered: " + user.Username,
	})

	return AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same error so account existence cannot be probed.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if u == nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(Identity{ID: u.ID, Username: u.Username})
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: *u, Token: token}, nil
}

// GetProfile returns the user behind a resolved identity.
func (s *AuthService) GetProfile(ctx context.Context, userID int) (models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return *u, nil
}

// Claims defines JWT claims carrying the identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// ParseToken verifies a token and returns the embedded identity. Malformed,
// mis-signed and expired tokens all map to ErrInvalidToken.
func (s *AuthService) ParseToken(accessToken string) (Identity, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	return Identity{ID: claims.UserID, Username: claims.Username}, nil
}

// issueToken signs an identity with an absolute expiry tokenTTL from now.
func (s *AuthService) issueToken(identity Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   identity.ID,
		Username: identity.Username,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// appendActivity records an event best-effort; failures are logged, never
// surfaced to the caller.
func (s *AuthService) appendActivity(ctx context.Context, e models.ActivityEvent) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Append(ctx, e); err != nil && s.log != nil {
		s.log.Errorw("activity_append_failed", "err", err, "type", e.Type, "owner", e.OwnerID)
	}
}
