package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/pkg/config"
	"github.com/tavolaops/tavola-backend/pkg/db"
	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
	"github.com/tavolaops/tavola-backend/pkg/security"
)

// Self-service registration closes permanently once this many admin
// accounts exist. CreateAccount is not subject to the cap.
const maxSelfRegisteredAdmins = 2

// Service exposes account registration and administration.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AccountDTO, error)
	ListAccounts(ctx context.Context) ([]AccountDTO, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*AccountDTO, error)
	CreateAccount(ctx context.Context, input CreateAccountInput) (*AccountDTO, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, input UpdateAccountInput) (*AccountDTO, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*AccountDTO, error)
	DeleteAccount(ctx context.Context, actorID, id uuid.UUID) error
}

// RegisterInput holds the payload for self-service registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     enums.Role
}

// CreateAccountInput holds the payload for admin-created accounts.
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Role     enums.Role
}

// UpdateAccountInput holds optional mutation values for an account.
type UpdateAccountInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *enums.Role
	IsActive *bool
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	passwordCfg config.PasswordConfig
}

// NewService constructs an account service instance.
func NewService(repo *Repository, dbClient *db.Client, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, passwordCfg: passwordCfg}, nil
}

// Register creates an account through the public endpoint. Role comes
// from the payload and defaults to user. Registration shuts for good
// once the admin cap is reached, whatever role is requested.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AccountDTO, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if err := validateCredentials(username, email, input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = enums.RoleUser
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	var created *models.Account
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		admins, err := repo.CountByRole(ctx, enums.RoleAdmin)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting admin accounts")
		}
		if admins >= maxSelfRegisteredAdmins {
			return pkgerrors.New(pkgerrors.CodeValidation, "registration is closed")
		}

		account, err := s.insertAccount(ctx, repo, username, email, input.Password, role)
		if err != nil {
			return err
		}
		created = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewAccountDTO(created), nil
}

func (s *service) ListAccounts(ctx context.Context) ([]AccountDTO, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing accounts")
	}
	return NewAccountDTOs(accounts), nil
}

func (s *service) GetAccount(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}
	return NewAccountDTO(account), nil
}

// CreateAccount provisions an account with any role, defaulting to chef.
// Unlike Register it is reachable only by admins and is not subject to
// the admin cap.
func (s *service) CreateAccount(ctx context.Context, input CreateAccountInput) (*AccountDTO, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if err := validateCredentials(username, email, input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = enums.RoleChef
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	account, err := s.insertAccount(ctx, s.repo, username, email, input.Password, role)
	if err != nil {
		return nil, err
	}
	return NewAccountDTO(account), nil
}

func (s *service) UpdateAccount(ctx context.Context, id uuid.UUID, input UpdateAccountInput) (*AccountDTO, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}

	if input.Role != nil && !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	username := account.Username
	email := account.Email
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username cannot be blank")
		}
	}
	if input.Email != nil {
		email = strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be blank")
		}
	}

	if username != account.Username || email != account.Email {
		taken, err := s.repo.UsernameOrEmailTaken(ctx, username, email, &id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking account uniqueness")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username or email already exists")
		}
	}

	account.Username = username
	account.Email = email
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
		}
		account.PasswordHash = hash
	}
	if input.Role != nil {
		account.Role = *input.Role
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating account")
	}
	return NewAccountDTO(saved), nil
}

func (s *service) ToggleActive(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}

	account.IsActive = !account.IsActive
	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggling account")
	}
	return NewAccountDTO(saved), nil
}

func (s *service) DeleteAccount(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting account")
	}
	return nil
}

func (s *service) insertAccount(ctx context.Context, repo *Repository, username, email, password string, role enums.Role) (*models.Account, error) {
	taken, err := repo.UsernameOrEmailTaken(ctx, username, email, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking account uniqueness")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username or email already exists")
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	account := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	created, err := repo.Create(ctx, account)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_accounts_username") || db.IsUniqueViolation(err, "idx_accounts_email") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username or email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating account")
	}
	return created, nil
}

func validateCredentials(username, email, password string) error {
	if username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(password) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}
