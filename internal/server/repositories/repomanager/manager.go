package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accountsvc/internal/dbx"
	"github.com/dmitrijs2005/accountsvc/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository code against the pooled connection or inside an open
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
