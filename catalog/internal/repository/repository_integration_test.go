//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/catalog/internal/errs"
	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/catalog/migrations"
	"github.com/Astemirdum/local-library/pkg/postgres"
)

// Runs against the database described by the DB_* variables:
//
//	DB_HOST=localhost DB_PASSWORD=postgres go test -tags integration ./catalog/internal/repository/
func newTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST is not set")
	}
	var cfg postgres.DB
	require.NoError(t, envconfig.Process("", &cfg))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := postgres.NewPostgresDB(ctx, &cfg, migrations.MigrationFiles)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestRepository_ListLoaned(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewRepository(db, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	early := uuid.New()
	late := uuid.New()
	undated := uuid.New()
	others := uuid.New()
	returned := uuid.New()
	_, err = db.Exec(ctx, `
insert into book_instance (id, book_id, imprint, due_back, status, borrower_id)
values ($1, 1, 'integration', current_date - 400, 'o', (select id from users where username = 'reader')),
       ($2, 1, 'integration', current_date + 400, 'o', (select id from users where username = 'reader')),
       ($3, 1, 'integration', null, 'o', (select id from users where username = 'reader')),
       ($4, 1, 'integration', current_date - 500, 'o', (select id from users where username = 'librarian')),
       ($5, 1, 'integration', current_date - 600, 'a', (select id from users where username = 'reader'))`,
		early, late, undated, others, returned)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `delete from book_instance where imprint = 'integration'`)
	})

	items, total, err := repo.ListLoaned(ctx, "reader", 1, 100)
	require.NoError(t, err)
	require.Equal(t, len(items), total)

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		require.NotNil(t, it.Borrower)
		require.Equal(t, "reader", *it.Borrower)
		require.Equal(t, model.LoanStatusOnLoan, it.Status)
		ids = append(ids, it.ID)
	}
	require.NotContains(t, ids, others)
	require.NotContains(t, ids, returned)
	require.Equal(t, early, ids[0])
	require.Equal(t, undated, ids[len(ids)-1])
	require.Equal(t, late, ids[len(ids)-2])
	for i := 1; i < len(items); i++ {
		if items[i].DueBack == nil {
			continue
		}
		require.False(t, items[i].DueBack.Before(items[i-1].DueBack.Time))
	}

	all, _, err := repo.ListLoaned(ctx, "", 1, 100)
	require.NoError(t, err)
	allIDs := make([]uuid.UUID, 0, len(all))
	for _, it := range all {
		allIDs = append(allIDs, it.ID)
	}
	require.Equal(t, others, allIDs[0])
	require.NotContains(t, allIDs, returned)
}

func TestRepository_DeleteAuthorKeepsBooks(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewRepository(db, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	author, err := repo.CreateAuthor(ctx, model.AuthorRequest{FirstName: "Frank", LastName: "Herbert"})
	require.NoError(t, err)

	var bookID int
	require.NoError(t, db.QueryRow(ctx,
		`insert into book (title, author_id, summary, isbn) values ('Dune', $1, '', '9780441013593') returning id`,
		author.ID).Scan(&bookID))
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `delete from book where id = $1`, bookID)
	})

	require.NoError(t, repo.DeleteAuthor(ctx, author.ID))

	var authorID *int
	require.NoError(t, db.QueryRow(ctx, `select author_id from book where id = $1`, bookID).Scan(&authorID))
	require.Nil(t, authorID)

	_, err = repo.GetAuthor(ctx, author.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
