package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/internal/accounts"
	pkgauth "github.com/tavolaops/tavola-backend/pkg/auth"
	"github.com/tavolaops/tavola-backend/pkg/auth/session"
	"github.com/tavolaops/tavola-backend/pkg/config"
	"github.com/tavolaops/tavola-backend/pkg/db/models"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
	"github.com/tavolaops/tavola-backend/pkg/security"
)

// Service exposes session lifecycle operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
	Me(ctx context.Context, accountID uuid.UUID) (*accounts.AccountDTO, error)
}

// LoginInput holds the login payload.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the freshly minted token and account profile.
type LoginResult struct {
	AccessToken string              `json:"access_token"`
	Account     accounts.AccountDTO `json:"account"`
}

type accountReader interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionWriter interface {
	Generate(ctx context.Context, accessID string, accountID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	accountRepo accountReader
	sessions    sessionWriter
	jwtCfg      config.JWTConfig
	now         func() time.Time
}

// NewService constructs an auth service instance.
func NewService(accountRepo accountReader, sessions sessionWriter, jwtCfg config.JWTConfig) (Service, error) {
	if accountRepo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		accountRepo: accountRepo,
		sessions:    sessions,
		jwtCfg:      jwtCfg,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Login verifies credentials and opens a server-side session. Bad username
// and bad password produce the same response.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}
	if !account.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	accessID := session.NewAccessID()
	now := s.now()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		AccountID: account.ID,
		Role:      account.Role,
		JTI:       accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	if err := s.sessions.Generate(ctx, accessID, account.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening session")
	}

	if err := s.accountRepo.RecordLogin(ctx, account.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording login")
	}
	loginAt := now
	account.LastLoginAt = &loginAt

	return &LoginResult{
		AccessToken: token,
		Account:     *accounts.NewAccountDTO(account),
	}, nil
}

// Logout revokes the server-side session behind the token's jti.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// Me returns the profile behind the authenticated account ID.
func (s *service) Me(ctx context.Context, accountID uuid.UUID) (*accounts.AccountDTO, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}
	return accounts.NewAccountDTO(account), nil
}
