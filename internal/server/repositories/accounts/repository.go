package accounts

import (
	"context"

	"github.com/dmitrijs2005/accountsvc/internal/server/models"
)

// Repository is the transactional store for the accounts relation. All
// methods run against whatever DBTX the repository was bound to, so a
// repository bound to a *sql.Tx participates in that transaction.
type Repository interface {
	// ListAll returns every account. An empty table yields an empty slice,
	// never nil, so callers can serialize the result as a JSON array.
	ListAll(ctx context.Context) ([]models.Account, error)

	// FindByEmail returns the account with the given email, or
	// common.ErrNotFound if no such row exists.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// FindByID returns the account with the given id, or common.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*models.Account, error)

	// Insert creates an account row and returns its assigned id. A unique
	// constraint violation on email or code is reported as
	// common.ErrConflict, distinguishable from other failures.
	Insert(ctx context.Context, draft models.AccountDraft, passwordHash string) (int64, error)

	// LockForUpdate acquires a row-level exclusive lock on the account row
	// within the caller's transaction and returns the locked row. Concurrent
	// lockers of the same id block until this transaction ends. Returns
	// common.ErrNotFound if the row does not exist.
	LockForUpdate(ctx context.Context, id int64) (*models.Account, error)

	// UpdatePasswordHash replaces the stored password hash. Returns false if
	// no row matched the id.
	UpdatePasswordHash(ctx context.Context, id int64, newHash string) (bool, error)

	// UpdateAvatarURL replaces the stored avatar URL. Returns false if no
	// row matched the id.
	UpdateAvatarURL(ctx context.Context, id int64, url string) (bool, error)
}
