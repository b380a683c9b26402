package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mjpos/backend/internal/domain/identity"
	"github.com/mjpos/backend/internal/domain/shared"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
}

type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// IssuedToken is what the token issuer hands back on login.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// TokenIssuer mints access tokens. Implemented by the JWT service in
// infrastructure.
type TokenIssuer interface {
	Issue(userID uuid.UUID, username string) (*IssuedToken, error)
}

// TokenRevoker invalidates issued tokens, backed by the redis blacklist.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService handles staff login and logout.
type AuthService struct {
	users   identity.UserRepository
	issuer  TokenIssuer
	revoker TokenRevoker
	logger  *zap.Logger
}

func NewAuthService(users identity.UserRepository, issuer TokenIssuer, revoker TokenRevoker, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, issuer: issuer, revoker: revoker, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "invalid username or password")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !user.Active || !user.CheckPassword(req.Password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "invalid username or password")
	}

	token, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("username", user.Username))
	return &LoginResponse{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}, nil
}

// Logout blacklists the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "token has no id")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, jti, ttl); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// CreateUser registers a staff account. Exposed through the bootstrap CLI and
// an admin endpoint.
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if exists {
		return nil, shared.NewDomainErrorf(shared.CodeAlreadyExists, "username %q is taken", req.Username)
	}

	user, err := identity.NewUser(req.Username, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Active:      user.Active,
		CreatedAt:   user.CreatedAt,
	}, nil
}
