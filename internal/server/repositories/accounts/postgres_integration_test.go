package accounts_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmitrijs2005/accountsvc/internal/common"
	"github.com/dmitrijs2005/accountsvc/internal/server/models"
	"github.com/dmitrijs2005/accountsvc/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accountsvc/internal/server/repositories/repomanager"
)

// startAccountsDB spins up a disposable Postgres, runs the embedded
// migrations against it, and returns a pooled handle. Tests are skipped in
// short mode and when no container runtime is available.
func startAccountsDB(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("accounts"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("container runtime unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db))
	return db
}

func TestLockForUpdate_BlocksUntilHolderCommits(t *testing.T) {
	db := startAccountsDB(t)
	ctx := context.Background()

	repo := accounts.NewPostgresRepository(db)
	id, err := repo.Insert(ctx,
		models.AccountDraft{Username: "alice", Email: "a@x.com", Code: "AbCdEf1"}, "h1")
	require.NoError(t, err)

	tx1, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	locked, err := accounts.NewPostgresRepository(tx1).LockForUpdate(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "h1", locked.HashedPassword)

	type lockResult struct {
		hash   string
		waited time.Duration
		err    error
	}
	results := make(chan lockResult, 1)
	ready := make(chan struct{})

	go func() {
		tx2, err := db.BeginTx(ctx, nil)
		if err != nil {
			results <- lockResult{err: err}
			return
		}
		defer func() { _ = tx2.Rollback() }()

		close(ready)
		start := time.Now()
		a, err := accounts.NewPostgresRepository(tx2).LockForUpdate(ctx, id)
		if err != nil {
			results <- lockResult{err: err}
			return
		}
		results <- lockResult{hash: a.HashedPassword, waited: time.Since(start)}
	}()

	const hold = 250 * time.Millisecond
	<-ready
	time.Sleep(hold)

	ok, err := accounts.NewPostgresRepository(tx1).UpdatePasswordHash(ctx, id, "h2")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, tx1.Commit())

	res := <-results
	require.NoError(t, res.err)
	require.GreaterOrEqual(t, res.waited, hold,
		"second locker must block for at least as long as the first transaction holds the row")
	require.Equal(t, "h2", res.hash,
		"second locker must observe the hash committed by the first transaction")
}

func TestInsert_ConcurrentDuplicateEmail(t *testing.T) {
	db := startAccountsDB(t)
	ctx := context.Background()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, code := range []string{"AAAAAA1", "AAAAAA2"} {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			_, err := accounts.NewPostgresRepository(db).Insert(ctx,
				models.AccountDraft{Username: "bob", Email: "dup@x.com", Code: code}, "h")
			errs <- err
		}(code)
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, common.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected insert error: %v", err)
		}
	}
	require.Equal(t, 1, successes, "exactly one of the racing inserts must win")
	require.Equal(t, 1, conflicts, "the losing insert must surface the conflict sentinel")

	list, err := accounts.NewPostgresRepository(db).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
