// Package services contains server-side business logic. AccountService
// orchestrates the account store, password hasher, code generator, token
// issuer, and object storage behind the public operations of the service.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/accountsvc/internal/common"
	"github.com/dmitrijs2005/accountsvc/internal/dbx"
	"github.com/dmitrijs2005/accountsvc/internal/logging"
	"github.com/dmitrijs2005/accountsvc/internal/server/auth"
	"github.com/dmitrijs2005/accountsvc/internal/server/cryptox"
	"github.com/dmitrijs2005/accountsvc/internal/server/models"
	"github.com/dmitrijs2005/accountsvc/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountsvc/internal/server/storage"
	"github.com/dmitrijs2005/accountsvc/internal/usercode"
)

// registerAttempts bounds the registration retry loop. Code collisions are
// rare (62^7 space) but possible; email collisions are caller-controlled and
// expected. Both funnel through the same conflict-tagged retry instead of a
// racy check-then-insert.
const registerAttempts = 5

// TokenPair bundles a short-lived access token and a longer-lived refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccountService implements registration, authentication, token refresh,
// account listing, and the locked password and avatar updates.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.PasswordHasher
	issuer      *auth.Issuer
	objects     storage.ObjectStorage
	logger      logging.Logger
}

// NewAccountService constructs an AccountService. The *sql.DB is the pooled
// handle every non-transactional operation runs on; transactional flows open
// their own transaction from it.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher *cryptox.PasswordHasher, issuer *auth.Issuer, objects storage.ObjectStorage, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		objects:     objects,
		logger:      logger.With("module", "account_service"),
	}
}

// Register creates an account. Each attempt generates a fresh code and runs
// a single unique-constrained insert; a conflict regenerates the code and
// retries, any other failure aborts immediately. After registerAttempts
// consecutive conflicts the operation gives up with ErrExhaustedRetries.
// No transaction or lock is held across attempts.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*models.Account, error) {
	s.logger.Info(ctx, "register", "username", username, "email", email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "register: hashing failed", "error", err)
		return nil, common.ErrInternal
	}

	repo := s.repomanager.Accounts(s.db)

	for attempt := 1; attempt <= registerAttempts; attempt++ {
		code, err := usercode.Generate()
		if err != nil {
			s.logger.Error(ctx, "register: code generation failed", "error", err)
			return nil, common.ErrInternal
		}

		draft := models.AccountDraft{Username: username, Email: email, Code: code}

		id, err := repo.Insert(ctx, draft, hash)
		if err == nil {
			s.logger.Info(ctx, "register: created", "id", id, "attempt", attempt)
			return &models.Account{
				ID:             id,
				Username:       username,
				Email:          email,
				Code:           code,
				HashedPassword: hash,
			}, nil
		}

		if errors.Is(err, common.ErrConflict) {
			s.logger.Warn(ctx, "register: conflict, retrying", "attempt", attempt)
			continue
		}

		s.logger.Error(ctx, "register: insert failed", "error", err)
		return nil, common.ErrInternal
	}

	s.logger.Warn(ctx, "register: retries exhausted", "email", email)
	return nil, common.ErrExhaustedRetries
}

// Authenticate verifies the email/password pair and mints a token pair.
// Unknown email and wrong password both yield ErrInvalidCredentials, so the
// response does not reveal whether the account exists.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*TokenPair, error) {
	s.logger.Info(ctx, "authenticate", "email", email)

	repo := s.repomanager.Accounts(s.db)

	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "authenticate: lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	if !s.hasher.Verify(password, account.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	now := time.Now()
	access, err := s.issuer.IssueAccess(account.Email, now)
	if err != nil {
		s.logger.Error(ctx, "authenticate: access token issue failed", "error", err)
		return nil, common.ErrInternal
	}
	refresh, err := s.issuer.IssueRefresh(account.Email, now)
	if err != nil {
		s.logger.Error(ctx, "authenticate: refresh token issue failed", "error", err)
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccessToken verifies a refresh token and mints a new access token
// for its subject. It never re-issues a refresh token, so a leaked refresh
// token cannot renew its own lifetime.
func (s *AccountService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	s.logger.Info(ctx, "refresh access token")

	email, err := s.issuer.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", common.ErrInvalidCredentials
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "refresh: lookup failed", "error", err)
		return "", common.ErrInternal
	}

	access, err := s.issuer.IssueAccess(account.Email, time.Now())
	if err != nil {
		s.logger.Error(ctx, "refresh: access token issue failed", "error", err)
		return "", common.ErrInternal
	}

	return access, nil
}

// GetCurrent resolves the account an access token belongs to.
func (s *AccountService) GetCurrent(ctx context.Context, accessToken string) (*models.Account, error) {
	email, err := s.issuer.Verify(accessToken, auth.TokenTypeAccess)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "get current: lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	return account, nil
}

// ListAccounts returns every registered account.
func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.logger.Info(ctx, "list accounts")

	repo := s.repomanager.Accounts(s.db)
	accounts, err := repo.ListAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "list accounts failed", "error", err)
		return nil, common.ErrInternal
	}
	return accounts, nil
}

// UpdatePassword rotates an account's password inside a single transaction:
// the row is locked FOR UPDATE, the old password is verified against the
// locked row's hash, and the new hash is written before the lock is
// released. Two overlapping rotations therefore serialize, and the second
// verifies against the first's committed hash.
func (s *AccountService) UpdatePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	s.logger.Info(ctx, "update password", "id", id)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.LockForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrNotFound
			}
			s.logger.Error(ctx, "update password: lock failed", "error", err)
			return common.ErrInternal
		}

		if !s.hasher.Verify(oldPassword, account.HashedPassword) {
			return common.ErrInvalidCredentials
		}

		newHash, err := s.hasher.Hash(newPassword)
		if err != nil {
			s.logger.Error(ctx, "update password: hashing failed", "error", err)
			return common.ErrInternal
		}

		ok, err := repo.UpdatePasswordHash(ctx, id, newHash)
		if err != nil {
			s.logger.Error(ctx, "update password: write failed", "error", err)
			return common.ErrInternal
		}
		if !ok {
			return common.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "update password: done", "id", id)
	return nil
}

// UpdateAvatar uploads the avatar bytes to object storage and persists the
// returned public URL on the account.
func (s *AccountService) UpdateAvatar(ctx context.Context, id int64, data []byte, filename, contentType string) (*models.Account, error) {
	s.logger.Info(ctx, "update avatar", "id", id, "filename", filename, "size", len(data))

	key := storage.RandomStorageKey(filename)
	url, err := s.objects.Put(ctx, data, key, contentType)
	if err != nil {
		s.logger.Error(ctx, "update avatar: upload failed", "error", err)
		return nil, common.ErrInternal
	}

	repo := s.repomanager.Accounts(s.db)

	ok, err := repo.UpdateAvatarURL(ctx, id, url)
	if err != nil {
		s.logger.Error(ctx, "update avatar: write failed", "error", err)
		return nil, common.ErrInternal
	}
	if !ok {
		return nil, common.ErrNotFound
	}

	account, err := repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "update avatar: reload failed", "error", err)
		return nil, common.ErrInternal
	}
	return account, nil
}
