package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/quickkart/internal/hash"
	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/Skotchmaster/quickkart/internal/repo"
	"github.com/Skotchmaster/quickkart/internal/tokens"
	"github.com/google/uuid"
)

const DefaultTokenTTL = time.Hour

type AuthService struct {
	Repo       UserStore
	JWTSecret  []byte
	TokenTTL   time.Duration
	BcryptCost int
	// Now is the clock used for issuing and verifying tokens; nil means time.Now.
	Now func() time.Time
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	User        *models.User
}

// Identity is the verified caller attached to authenticated requests.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

func (h *AuthService) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *AuthService) ttl() time.Duration {
	if h.TokenTTL > 0 {
		return h.TokenTTL
	}
	return DefaultTokenTTL
}

func (h *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validationf("username and password are required")
	}
	if len(password) > hash.MaxPasswordBytes {
		return nil, validationf("password must be at most %d bytes", hash.MaxPasswordBytes)
	}

	if _, err := h.Repo.GetUserByUsername(ctx, username); err == nil {
		l.Warn("register_error", "status", 409, "reason", "user already exist")
		return nil, newError(ErrConflict, "Username already taken")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password, h.BcryptCost)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: pwHash}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, newError(ErrConflict, "Username already taken")
		}
		return nil, err
	}
	return user, nil
}

func (h *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validationf("username and password are required")
	}

	user, err := h.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			return nil, newError(ErrUnauthorized, "Invalid username or password")
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return nil, newError(ErrUnauthorized, "Invalid username or password")
	}

	token, exp, err := tokens.NewAccessToken(h.JWTSecret, user.ID.String(), user.Username, h.now(), h.ttl())
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	return &LoginResult{AccessToken: token, AccessExp: exp, User: user}, nil
}

// Verify returns ErrUnauthorized for every kind of bad token.
func (h *AuthService) Verify(token string) (*Identity, error) {
	claims, err := tokens.AccessClaimsFromToken(token, h.JWTSecret, h.now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrUnauthorized)
	}
	return &Identity{UserID: userID, Username: claims.Username}, nil
}
