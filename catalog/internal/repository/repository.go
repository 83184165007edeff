package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/catalog/internal/errs"
	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CountBooks(ctx context.Context) (int, error)
	CountAuthors(ctx context.Context) (int, error)
	CountGenres(ctx context.Context) (int, error)
	CountBookInstances(ctx context.Context, status model.LoanStatus) (int, error)

	ListBooks(ctx context.Context, page, size int) ([]model.Book, int, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBookGenres(ctx context.Context, bookID int) ([]model.Genre, error)
	GetLanguage(ctx context.Context, id int) (model.Language, error)
	ListBooksByAuthor(ctx context.Context, authorID int) ([]model.Book, error)

	ListAuthors(ctx context.Context, page, size int) ([]model.Author, int, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	CreateAuthor(ctx context.Context, req model.AuthorRequest) (model.Author, error)
	UpdateAuthor(ctx context.Context, id int, req model.AuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error

	ListBookInstancesByBook(ctx context.Context, bookID int) ([]model.BookInstance, error)
	ListLoaned(ctx context.Context, borrower string, page, size int) ([]model.BookInstance, int, error)
	GetBookInstance(ctx context.Context, id uuid.UUID) (model.BookInstance, error)
	UpdateDueBack(ctx context.Context, id uuid.UUID, dueBack model.Date) error
	UpdateInstanceStatus(ctx context.Context, id uuid.UUID, status model.LoanStatus, borrowerID *int, dueBack *model.Date) error

	GetUser(ctx context.Context, username string) (model.User, error)

	RecordEvent(ctx context.Context, event kafka.EventCatalog) error
	GetStats(ctx context.Context) (model.StatsInfo, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	bookTableName         = `book`
	genreTableName        = `genre`
	bookGenreTableName    = `book_genre`
	languageTableName     = `language`
	authorTableName       = `author`
	bookInstanceTableName = `book_instance`
	usersTableName        = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	bookColumns     = []string{"id", "title", "isbn", "summary", "author_id", "language_id"}
	authorColumns   = []string{"id", "first_name", "last_name", "date_of_birth", "date_of_death"}
	instanceColumns = []string{"bi.id", "bi.book_id", "b.title as book_title", "bi.imprint", "bi.due_back", "bi.status", "u.username as borrower"}
)

func instancesQuery() sq.SelectBuilder {
	return qb.Select(instanceColumns...).
		From(bookInstanceTableName + " bi").
		LeftJoin(fmt.Sprintf("%s b on b.id = bi.book_id", bookTableName)).
		LeftJoin(fmt.Sprintf("%s u on u.id = bi.borrower_id", usersTableName))
}

func paginate(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}

func (r *repository) count(ctx context.Context, q sq.SelectBuilder) (int, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repository) CountBooks(ctx context.Context) (int, error) {
	return r.count(ctx, qb.Select("count(*)").From(bookTableName))
}

func (r *repository) CountAuthors(ctx context.Context) (int, error) {
	return r.count(ctx, qb.Select("count(*)").From(authorTableName))
}

func (r *repository) CountGenres(ctx context.Context) (int, error) {
	return r.count(ctx, qb.Select("count(*)").From(genreTableName))
}

// CountBookInstances counts copies with the given status, or all copies when status is empty.
func (r *repository) CountBookInstances(ctx context.Context, status model.LoanStatus) (int, error) {
	q := qb.Select("count(*)").From(bookInstanceTableName)
	if status != "" {
		q = q.Where(sq.Eq{"status": status})
	}
	return r.count(ctx, q)
}

func (r *repository) ListBooks(ctx context.Context, page, size int) ([]model.Book, int, error) {
	total, err := r.CountBooks(ctx)
	if err != nil {
		return nil, 0, err
	}
	query, args, err := paginate(qb.Select(bookColumns...).From(bookTableName).OrderBy("title", "id"), page, size).ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, 0, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return books, total, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(bookTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBookGenres(ctx context.Context, bookID int) ([]model.Genre, error) {
	query, args, err := qb.Select("g.id", "g.name").
		From(genreTableName + " g").
		Join(fmt.Sprintf("%s bg on bg.genre_id = g.id", bookGenreTableName)).
		Where(sq.Eq{"bg.book_id": bookID}).
		OrderBy("g.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Genre])
}

func (r *repository) GetLanguage(ctx context.Context, id int) (model.Language, error) {
	query, args, err := qb.Select("id", "name").
		From(languageTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Language{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Language{}, err
	}
	lang, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Language])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Language{}, errs.ErrNotFound
		}
		return model.Language{}, err
	}
	return lang, nil
}

func (r *repository) ListBooksByAuthor(ctx context.Context, authorID int) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(bookTableName).
		Where(sq.Eq{"author_id": authorID}).
		OrderBy("title", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
}

func (r *repository) ListAuthors(ctx context.Context, page, size int) ([]model.Author, int, error) {
	total, err := r.CountAuthors(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := qb.Select(authorColumns...).
		From(authorTableName).
		OrderBy("last_name", "first_name", "id")
	query, args, err := paginate(q, page, size).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	authors, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return nil, 0, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return authors, total, nil
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	query, args, err := qb.Select(authorColumns...).
		From(authorTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	return r.collectAuthor(ctx, query, args)
}

func (r *repository) CreateAuthor(ctx context.Context, req model.AuthorRequest) (model.Author, error) {
	query, args, err := qb.Insert(authorTableName).
		Columns("first_name", "last_name", "date_of_birth", "date_of_death").
		Values(req.FirstName, req.LastName, req.DateOfBirth, req.DateOfDeath).
		Suffix("returning id, first_name, last_name, date_of_birth, date_of_death").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	author, err := r.collectAuthor(ctx, query, args)
	if err != nil {
		r.log.Error("CreateAuthor", zap.String("q", query), zap.Any("args", args))
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) UpdateAuthor(ctx context.Context, id int, req model.AuthorRequest) (model.Author, error) {
	query, args, err := qb.Update(authorTableName).
		SetMap(map[string]interface{}{
			"first_name":    req.FirstName,
			"last_name":     req.LastName,
			"date_of_birth": req.DateOfBirth,
			"date_of_death": req.DateOfDeath,
		}).
		Where(sq.Eq{"id": id}).
		Suffix("returning id, first_name, last_name, date_of_birth, date_of_death").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	return r.collectAuthor(ctx, query, args)
}

func (r *repository) collectAuthor(ctx context.Context, query string, args []interface{}) (model.Author, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, mapPgError(err)
	}
	author, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, mapPgError(err)
	}
	return author, nil
}

func deleteAuthorQuery(id int) sq.DeleteBuilder {
	return qb.Delete(authorTableName).Where(sq.Eq{"id": id})
}

// DeleteAuthor removes the author; the schema nulls book.author_id instead of deleting books.
func (r *repository) DeleteAuthor(ctx context.Context, id int) error {
	query, args, err := deleteAuthorQuery(id).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) ListBookInstancesByBook(ctx context.Context, bookID int) ([]model.BookInstance, error) {
	query, args, err := instancesQuery().
		Where(sq.Eq{"bi.book_id": bookID}).
		OrderBy("bi.due_back", "bi.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.BookInstance])
}

// loanedQueries builds the count and page queries over on-loan copies ordered by due date
// (NULLs last); borrower narrows both to one user.
func loanedQueries(borrower string, page, size int) (count, list sq.SelectBuilder) {
	where := sq.And{sq.Eq{"bi.status": model.LoanStatusOnLoan}}
	if borrower != "" {
		where = append(where, sq.Eq{"u.username": borrower})
	}
	count = qb.Select("count(*)").
		From(bookInstanceTableName + " bi").
		LeftJoin(fmt.Sprintf("%s u on u.id = bi.borrower_id", usersTableName)).
		Where(where)
	list = paginate(instancesQuery().Where(where).OrderBy("bi.due_back", "bi.id"), page, size)
	return count, list
}

func (r *repository) ListLoaned(ctx context.Context, borrower string, page, size int) ([]model.BookInstance, int, error) {
	countQuery, listQuery := loanedQueries(borrower, page, size)
	total, err := r.count(ctx, countQuery)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("ListLoaned", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BookInstance])
	if err != nil {
		return nil, 0, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return items, total, nil
}

func (r *repository) GetBookInstance(ctx context.Context, id uuid.UUID) (model.BookInstance, error) {
	query, args, err := instancesQuery().
		Where(sq.Eq{"bi.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.BookInstance{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.BookInstance{}, err
	}
	inst, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BookInstance])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BookInstance{}, errs.ErrNotFound
		}
		return model.BookInstance{}, err
	}
	return inst, nil
}

func (r *repository) UpdateDueBack(ctx context.Context, id uuid.UUID, dueBack model.Date) error {
	q := `update book_instance set due_back = @due_back where id = @id`
	args := pgx.NamedArgs{
		"id":       id,
		"due_back": dueBack,
	}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateInstanceStatus(ctx context.Context, id uuid.UUID, status model.LoanStatus, borrowerID *int, dueBack *model.Date) error {
	q := `
update book_instance
    set status = @status, borrower_id = @borrower_id, due_back = @due_back
where id = @id`
	args := pgx.NamedArgs{
		"id":          id,
		"status":      string(status),
		"borrower_id": borrowerID,
		"due_back":    dueBack,
	}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) GetUser(ctx context.Context, username string) (model.User, error) {
	query, args, err := qb.Select("id", "username", "password_hash", "permissions").
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return errs.ErrNotFound
	case pgerrcode.CheckViolation, pgerrcode.StringDataRightTruncationDataException, pgerrcode.NotNullViolation:
		field := pgErr.ColumnName
		if field == "" {
			field = "non_field_errors"
		}
		return errs.NewValidationError(field, pgErr.Message)
	}
	return err
}
