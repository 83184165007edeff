package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/local-library/catalog/internal/errs"
	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/catalog/internal/repository"
	"github.com/Astemirdum/local-library/pkg/auth"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

const (
	BooksPageSize    = 2
	AuthorsPageSize  = 10
	BorrowedPageSize = 10

	renewalProposalDays = 3 * 7
	renewalMaxDays      = 4 * 7
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type VisitCounter interface {
	Visit(ctx context.Context, sessionID string) (int, error)
}

type TokenIssuer interface {
	Issue(u auth.User) (string, time.Time, error)
}

type Publisher interface {
	Publish(ctx context.Context, event kafka.EventCatalog) error
}

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	visits VisitCounter
	events Publisher
	issuer TokenIssuer
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now; "today" is derived from it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, visits VisitCounter, events Publisher, issuer TokenIssuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:    log,
		repo:   repo,
		visits: visits,
		events: events,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() model.Date {
	return model.NewDate(s.now())
}

func (s *Service) Index(ctx context.Context, sessionID string) (model.Index, error) {
	var idx model.Index
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		idx.NumBooks, err = s.repo.CountBooks(ctx)
		return err
	})
	g.Go(func() (err error) {
		idx.NumInstances, err = s.repo.CountBookInstances(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		idx.NumInstancesAvailable, err = s.repo.CountBookInstances(ctx, model.LoanStatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		idx.NumAuthors, err = s.repo.CountAuthors(ctx)
		return err
	})
	g.Go(func() (err error) {
		idx.NumGenres, err = s.repo.CountGenres(ctx)
		return err
	})
	g.Go(func() error {
		visits, err := s.visits.Visit(ctx, sessionID)
		if err != nil {
			s.log.Warn("visit counter", zap.Error(err))
			return nil
		}
		idx.NumVisits = visits
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Index{}, err
	}
	return idx, nil
}

// paging validates a 1-based page against total rows; pages past the end are not found.
func paging(page, size, total int) (model.Paging, error) {
	if page < 1 {
		return model.Paging{}, errs.ErrInvalidPage
	}
	p := model.NewPaging(page, size, total)
	if page > p.TotalPages {
		return model.Paging{}, errs.ErrInvalidPage
	}
	return p, nil
}

func (s *Service) ListBooks(ctx context.Context, page int) (model.ListBooks, error) {
	if page < 1 {
		return model.ListBooks{}, errs.ErrInvalidPage
	}
	books, total, err := s.repo.ListBooks(ctx, page, BooksPageSize)
	if err != nil {
		return model.ListBooks{}, err
	}
	p, err := paging(page, BooksPageSize, total)
	if err != nil {
		return model.ListBooks{}, err
	}
	return model.ListBooks{Paging: p, Items: nonNil(books)}, nil
}

func (s *Service) GetBook(ctx context.Context, id int) (model.BookDetail, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.BookDetail{}, err
	}
	detail := model.BookDetail{Book: book}

	if book.AuthorID != nil {
		author, err := s.repo.GetAuthor(ctx, *book.AuthorID)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return model.BookDetail{}, err
		}
		if err == nil {
			detail.Author = &author
		}
	}
	if book.LanguageID != nil {
		lang, err := s.repo.GetLanguage(ctx, *book.LanguageID)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return model.BookDetail{}, err
		}
		if err == nil {
			detail.Language = &lang
		}
	}
	genres, err := s.repo.ListBookGenres(ctx, id)
	if err != nil {
		return model.BookDetail{}, err
	}
	detail.Genres = nonNil(genres)
	detail.DisplayGenre = model.DisplayGenre(genres)

	instances, err := s.repo.ListBookInstancesByBook(ctx, id)
	if err != nil {
		return model.BookDetail{}, err
	}
	detail.Instances = s.annotate(instances)
	return detail, nil
}

func (s *Service) ListAuthors(ctx context.Context, page int) (model.ListAuthors, error) {
	if page < 1 {
		return model.ListAuthors{}, errs.ErrInvalidPage
	}
	authors, total, err := s.repo.ListAuthors(ctx, page, AuthorsPageSize)
	if err != nil {
		return model.ListAuthors{}, err
	}
	p, err := paging(page, AuthorsPageSize, total)
	if err != nil {
		return model.ListAuthors{}, err
	}
	return model.ListAuthors{Paging: p, Items: nonNil(authors)}, nil
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.AuthorDetail, error) {
	author, err := s.repo.GetAuthor(ctx, id)
	if err != nil {
		return model.AuthorDetail{}, err
	}
	books, err := s.repo.ListBooksByAuthor(ctx, id)
	if err != nil {
		return model.AuthorDetail{}, err
	}
	return model.AuthorDetail{
		Author:      author,
		DisplayName: author.DisplayName(),
		Books:       nonNil(books),
	}, nil
}

func (s *Service) ListMyBorrowed(ctx context.Context, username string, page int) (model.ListBookInstances, error) {
	if username == "" {
		return model.ListBookInstances{}, auth.ErrNoUser
	}
	return s.listLoaned(ctx, username, page)
}

func (s *Service) ListAllBorrowed(ctx context.Context, page int) (model.ListBookInstances, error) {
	return s.listLoaned(ctx, "", page)
}

func (s *Service) listLoaned(ctx context.Context, borrower string, page int) (model.ListBookInstances, error) {
	if page < 1 {
		return model.ListBookInstances{}, errs.ErrInvalidPage
	}
	items, total, err := s.repo.ListLoaned(ctx, borrower, page, BorrowedPageSize)
	if err != nil {
		return model.ListBookInstances{}, err
	}
	p, err := paging(page, BorrowedPageSize, total)
	if err != nil {
		return model.ListBookInstances{}, err
	}
	return model.ListBookInstances{Paging: p, Items: s.annotate(items)}, nil
}

func (s *Service) annotate(items []model.BookInstance) []model.BookInstance {
	today := s.today()
	for i := range items {
		items[i].Annotate(today)
	}
	return nonNil(items)
}

func (s *Service) Login(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUser(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	token, exp, err := s.issuer.Issue(auth.User{Username: user.Username, Permissions: user.Permissions})
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int(exp.Sub(s.now()).Seconds()),
	}, nil
}

// ApplyStatusUpdate applies an administrative change of a copy's loan state.
func (s *Service) ApplyStatusUpdate(ctx context.Context, upd model.InstanceStatusUpdate) error {
	if !upd.Status.Valid() {
		return errs.NewValidationError("status", "Select a valid choice. "+string(upd.Status)+" is not one of the available choices.")
	}
	var borrowerID *int
	if upd.Borrower != nil && *upd.Borrower != "" {
		user, err := s.repo.GetUser(ctx, *upd.Borrower)
		if err != nil {
			return errors.Wrapf(err, "borrower %q", *upd.Borrower)
		}
		borrowerID = &user.ID
	}
	return s.repo.UpdateInstanceStatus(ctx, upd.InstanceID, upd.Status, borrowerID, normalizeDate(upd.DueBack))
}

func (s *Service) publish(ctx context.Context, event kafka.EventCatalog) {
	event.Timestamp = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("publish event", zap.String("type", string(event.EventType)), zap.Error(err))
	}
}

func userName(ctx context.Context) string {
	u, err := auth.GetUser(ctx)
	if err != nil {
		return ""
	}
	return u.Username
}

func normalizeDate(d *model.Date) *model.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
