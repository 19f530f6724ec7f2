package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/velorashop/storefront-backend/pkg/auth"
	"github.com/velorashop/storefront-backend/pkg/auth/session"
	"github.com/velorashop/storefront-backend/pkg/config"
	"github.com/velorashop/storefront-backend/pkg/db/models"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/security"
)

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is the issued access/refresh credential set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service authenticates users and manages their refresh sessions.
type Service interface {
	Login(ctx context.Context, creds Credentials) (*TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type service struct {
	users    userFinder
	sessions sessionManager
	jwt      config.JWTConfig
	now      func() time.Time
}

// ServiceParams wires the auth service dependencies.
type ServiceParams struct {
	Users    userFinder
	Sessions sessionManager
	JWT      config.JWTConfig
	Now      func() time.Time
}

// NewService builds the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:    params.Users,
		sessions: params.Sessions,
		jwt:      params.JWT,
		now:      now,
	}, nil
}

// Login verifies the password and issues a fresh token pair. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, creds Credentials) (*TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issuePair(ctx, user, session.NewAccessID())
}

// Refresh rotates a refresh session. The access token may be expired; its
// signature and issuer still have to verify.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "rotate session")
	}

	access, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout revokes the refresh session bound to the access token.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, accessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "revoke session")
	}
	return nil
}

func (s *service) issuePair(ctx context.Context, user *models.User, accessID string) (*TokenPair, error) {
	access, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create session")
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
