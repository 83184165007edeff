package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/local-library/catalog/internal/errs"
	"github.com/Astemirdum/local-library/catalog/internal/model"
	repo_mocks "github.com/Astemirdum/local-library/catalog/internal/repository/mocks"
	"github.com/Astemirdum/local-library/catalog/internal/service"
	service_mocks "github.com/Astemirdum/local-library/catalog/internal/service/mocks"
	"github.com/Astemirdum/local-library/pkg/auth"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

var (
	fixedNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)
	today    = model.NewDate(fixedNow)
)

type deps struct {
	repo   *repo_mocks.MockRepository
	visits *service_mocks.MockVisitCounter
	events *service_mocks.MockPublisher
	issuer *service_mocks.MockTokenIssuer
}

func newService(t *testing.T) (*service.Service, deps) {
	t.Helper()
	c := gomock.NewController(t)
	d := deps{
		repo:   repo_mocks.NewMockRepository(c),
		visits: service_mocks.NewMockVisitCounter(c),
		events: service_mocks.NewMockPublisher(c),
		issuer: service_mocks.NewMockTokenIssuer(c),
	}
	svc := service.NewService(d.repo, d.visits, d.events, d.issuer, zap.NewNop(),
		service.WithClock(func() time.Time { return fixedNow }))
	return svc, d
}

func datePtr(d model.Date) *model.Date {
	return &d
}

func TestService_RenewBook(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("7d9a7c1c-5c0e-4b3c-9d0e-1f2a3b4c5d6e")
	title := "The Shining"
	instance := model.BookInstance{
		ID:        id,
		BookTitle: &title,
		Imprint:   "Doubleday, 1977",
		DueBack:   datePtr(today.AddDays(-2)),
		Status:    model.LoanStatusOnLoan,
	}

	tests := []struct {
		name    string
		date    *model.Date
		wantMsg string
	}{
		{name: "ok. today", date: datePtr(today)},
		{name: "ok. four weeks ahead", date: datePtr(today.AddDays(28))},
		{name: "ok. three weeks ahead", date: datePtr(today.AddDays(21))},
		{name: "err. yesterday", date: datePtr(today.AddDays(-1)), wantMsg: "Invalid date - renewal in past"},
		{name: "err. four weeks and a day", date: datePtr(today.AddDays(29)), wantMsg: "Invalid date - renewal more than 4 weeks ahead"},
		{name: "err. missing", date: nil, wantMsg: "This field is required."},
		{name: "err. empty", date: &model.Date{}, wantMsg: "This field is required."},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			ctx := auth.SetAuthContext(context.Background(), auth.User{
				Username:    "librarian",
				Permissions: []string{auth.PermCanMarkReturned},
			})

			d.repo.EXPECT().GetBookInstance(ctx, id).Return(instance, nil)
			if tt.wantMsg == "" {
				d.repo.EXPECT().UpdateDueBack(ctx, id, *tt.date).Return(nil)
				d.events.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, ev kafka.EventCatalog) error {
						require.Equal(t, kafka.EventInstanceRenewed, ev.EventType)
						require.Equal(t, "librarian", ev.UserName)
						require.Equal(t, id.String(), ev.InstanceID)
						require.Equal(t, tt.date.String(), ev.DueBack)
						return nil
					})
			}

			form, err := svc.RenewBook(ctx, id, model.RenewRequest{RenewalDate: tt.date})
			if tt.wantMsg != "" {
				var verr *errs.ValidationError
				require.True(t, errors.As(err, &verr))
				require.Equal(t, map[string]string{"renewal_date": tt.wantMsg}, verr.Fields)
				require.Equal(t, verr.Fields, form.Errors)
				require.Equal(t, today.AddDays(21), form.ProposedRenewalDate)
				require.Equal(t, id, form.Instance.ID)
				return
			}
			require.NoError(t, err)
			require.Equal(t, *tt.date, *form.Instance.DueBack)
			require.False(t, form.Instance.IsOverdue)
		})
	}
}

func TestService_RenewBook_NotFound(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	id := uuid.New()
	d.repo.EXPECT().GetBookInstance(gomock.Any(), id).Return(model.BookInstance{}, errs.ErrNotFound)

	_, err := svc.RenewBook(context.Background(), id, model.RenewRequest{RenewalDate: datePtr(today)})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_RenewForm(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	id := uuid.New()
	d.repo.EXPECT().GetBookInstance(gomock.Any(), id).Return(model.BookInstance{
		ID:      id,
		DueBack: datePtr(today.AddDays(-1)),
		Status:  model.LoanStatusOnLoan,
	}, nil)

	form, err := svc.RenewForm(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "2024-03-31", form.ProposedRenewalDate.String())
	require.True(t, form.Instance.IsOverdue)
	require.Equal(t, id.String()+" ()", form.Instance.DisplayName)
	require.Equal(t, "On loan", form.Instance.StatusLabel)
	require.Empty(t, form.Errors)
}

func TestService_ListAllBorrowed(t *testing.T) {
	t.Parallel()
	loaned := []model.BookInstance{
		{ID: uuid.New(), DueBack: datePtr(today.AddDays(-3)), Status: model.LoanStatusOnLoan},
		{ID: uuid.New(), DueBack: datePtr(today), Status: model.LoanStatusOnLoan},
		{ID: uuid.New(), DueBack: datePtr(today.AddDays(5)), Status: model.LoanStatusOnLoan},
	}

	t.Run("ok. overdue marked", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().ListLoaned(gomock.Any(), "", 1, service.BorrowedPageSize).Return(append([]model.BookInstance(nil), loaned...), 3, nil)

		list, err := svc.ListAllBorrowed(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, list.Items, 3)
		require.True(t, list.Items[0].IsOverdue)
		require.False(t, list.Items[1].IsOverdue)
		require.False(t, list.Items[2].IsOverdue)
		require.Equal(t, loaned[0].ID.String()+" ()", list.Items[0].DisplayName)
		require.Equal(t, "On loan", list.Items[2].StatusLabel)
		require.Equal(t, model.Paging{Page: 1, PageSize: 10, TotalElements: 3, TotalPages: 1}, list.Paging)
	})
	t.Run("ok. empty first page", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().ListLoaned(gomock.Any(), "", 1, service.BorrowedPageSize).Return(nil, 0, nil)

		list, err := svc.ListAllBorrowed(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, list.Items)
		require.Empty(t, list.Items)
	})
	t.Run("err. page past the end", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().ListLoaned(gomock.Any(), "", 2, service.BorrowedPageSize).Return(nil, 3, nil)

		_, err := svc.ListAllBorrowed(context.Background(), 2)
		require.ErrorIs(t, err, errs.ErrInvalidPage)
	})
	t.Run("err. page zero", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.ListAllBorrowed(context.Background(), 0)
		require.ErrorIs(t, err, errs.ErrInvalidPage)
	})
}

func TestService_ListMyBorrowed(t *testing.T) {
	t.Parallel()
	t.Run("ok. filtered by caller", func(t *testing.T) {
		svc, d := newService(t)
		reader := "reader"
		d.repo.EXPECT().ListLoaned(gomock.Any(), reader, 1, service.BorrowedPageSize).Return([]model.BookInstance{
			{ID: uuid.New(), Borrower: &reader, DueBack: datePtr(today.AddDays(1)), Status: model.LoanStatusOnLoan},
		}, 1, nil)

		list, err := svc.ListMyBorrowed(context.Background(), reader, 1)
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		require.Equal(t, reader, *list.Items[0].Borrower)
	})
	t.Run("err. anonymous", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.ListMyBorrowed(context.Background(), "", 1)
		require.ErrorIs(t, err, auth.ErrNoUser)
	})
}

func TestService_ListBooks(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().ListBooks(gomock.Any(), 2, service.BooksPageSize).Return([]model.Book{{ID: 3, Title: "Dune"}}, 3, nil)

	list, err := svc.ListBooks(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, model.Paging{Page: 2, PageSize: 2, TotalElements: 3, TotalPages: 2, HasPrevious: true}, list.Paging)
	require.Equal(t, "Dune", list.Items[0].Title)
}

func TestService_Index(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().CountBooks(gomock.Any()).Return(4, nil)
	d.repo.EXPECT().CountBookInstances(gomock.Any(), model.LoanStatus("")).Return(5, nil)
	d.repo.EXPECT().CountBookInstances(gomock.Any(), model.LoanStatusAvailable).Return(2, nil)
	d.repo.EXPECT().CountAuthors(gomock.Any()).Return(3, nil)
	d.repo.EXPECT().CountGenres(gomock.Any()).Return(6, nil)
	d.visits.EXPECT().Visit(gomock.Any(), "sid").Return(7, nil)

	idx, err := svc.Index(context.Background(), "sid")
	require.NoError(t, err)
	require.Equal(t, model.Index{
		NumBooks:              4,
		NumInstances:          5,
		NumInstancesAvailable: 2,
		NumAuthors:            3,
		NumGenres:             6,
		NumVisits:             7,
	}, idx)
}

func TestService_IndexVisitCounterDown(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().CountBooks(gomock.Any()).Return(4, nil)
	d.repo.EXPECT().CountBookInstances(gomock.Any(), gomock.Any()).Return(1, nil).Times(2)
	d.repo.EXPECT().CountAuthors(gomock.Any()).Return(3, nil)
	d.repo.EXPECT().CountGenres(gomock.Any()).Return(6, nil)
	d.visits.EXPECT().Visit(gomock.Any(), "sid").Return(0, errors.New("dial tcp: connection refused"))

	idx, err := svc.Index(context.Background(), "sid")
	require.NoError(t, err)
	require.Equal(t, 4, idx.NumBooks)
	require.Zero(t, idx.NumVisits)
}

func TestService_Login(t *testing.T) {
	t.Parallel()
	hash, err := bcrypt.GenerateFromPassword([]byte("library"), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{
		ID:           1,
		Username:     "librarian",
		PasswordHash: string(hash),
		Permissions:  []string{auth.PermCanMarkReturned},
	}

	t.Run("ok", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().GetUser(gomock.Any(), "librarian").Return(user, nil)
		d.issuer.EXPECT().Issue(auth.User{Username: "librarian", Permissions: user.Permissions}).
			Return("token", fixedNow.Add(time.Hour), nil)

		resp, err := svc.Login(context.Background(), model.AuthRequest{Username: "librarian", Password: "library"})
		require.NoError(t, err)
		require.Equal(t, model.AuthResponse{AccessToken: "token", ExpiresIn: 3600}, resp)
	})
	t.Run("err. wrong password", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().GetUser(gomock.Any(), "librarian").Return(user, nil)

		_, err := svc.Login(context.Background(), model.AuthRequest{Username: "librarian", Password: "nope"})
		require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
	t.Run("err. unknown user", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().GetUser(gomock.Any(), "ghost").Return(model.User{}, errs.ErrNotFound)

		_, err := svc.Login(context.Background(), model.AuthRequest{Username: "ghost", Password: "library"})
		require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func TestService_Authors(t *testing.T) {
	t.Parallel()
	ctx := auth.SetAuthContext(context.Background(), auth.User{Username: "reader"})

	t.Run("create drops empty dates", func(t *testing.T) {
		svc, d := newService(t)
		req := model.AuthorRequest{FirstName: "Stephen", LastName: "King", DateOfBirth: datePtr(model.Date{})}
		d.repo.EXPECT().CreateAuthor(ctx, model.AuthorRequest{FirstName: "Stephen", LastName: "King"}).
			Return(model.Author{ID: 9, FirstName: "Stephen", LastName: "King"}, nil)
		d.events.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, ev kafka.EventCatalog) error {
			require.Equal(t, kafka.EventAuthorCreated, ev.EventType)
			require.Equal(t, 9, ev.AuthorID)
			require.Equal(t, fixedNow, ev.Timestamp)
			return nil
		})

		author, err := svc.CreateAuthor(ctx, req)
		require.NoError(t, err)
		require.Equal(t, 9, author.ID)
	})
	t.Run("delete publishes even when broker is down", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().DeleteAuthor(ctx, 9).Return(nil)
		d.events.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("circuit breaker is open"))

		require.NoError(t, svc.DeleteAuthor(ctx, 9))
	})
	t.Run("delete unknown", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().DeleteAuthor(ctx, 404).Return(errs.ErrNotFound)

		require.ErrorIs(t, svc.DeleteAuthor(ctx, 404), errs.ErrNotFound)
	})
}

func TestService_ApplyStatusUpdate(t *testing.T) {
	t.Parallel()
	id := uuid.New()

	t.Run("ok. lend to reader", func(t *testing.T) {
		svc, d := newService(t)
		reader := "reader"
		due := today.AddDays(14)
		d.repo.EXPECT().GetUser(gomock.Any(), reader).Return(model.User{ID: 2, Username: reader}, nil)
		borrowerID := 2
		d.repo.EXPECT().UpdateInstanceStatus(gomock.Any(), id, model.LoanStatusOnLoan, &borrowerID, &due).Return(nil)

		err := svc.ApplyStatusUpdate(context.Background(), model.InstanceStatusUpdate{
			InstanceID: id,
			Status:     model.LoanStatusOnLoan,
			Borrower:   &reader,
			DueBack:    &due,
		})
		require.NoError(t, err)
	})
	t.Run("ok. returned", func(t *testing.T) {
		svc, d := newService(t)
		d.repo.EXPECT().UpdateInstanceStatus(gomock.Any(), id, model.LoanStatusAvailable, nil, nil).Return(nil)

		err := svc.ApplyStatusUpdate(context.Background(), model.InstanceStatusUpdate{
			InstanceID: id,
			Status:     model.LoanStatusAvailable,
		})
		require.NoError(t, err)
	})
	t.Run("err. invalid status", func(t *testing.T) {
		svc, _ := newService(t)
		err := svc.ApplyStatusUpdate(context.Background(), model.InstanceStatusUpdate{
			InstanceID: id,
			Status:     "d",
		})
		var verr *errs.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Contains(t, verr.Fields, "status")
	})
}

func TestService_Stats(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().GetStats(gomock.Any()).Return(model.StatsInfo{}, nil)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats.Data)

	ev := kafka.EventCatalog{EventType: kafka.EventInstanceRenewed, UserName: "librarian"}
	d.repo.EXPECT().RecordEvent(gomock.Any(), ev).Return(nil)
	require.NoError(t, svc.RecordEvent(context.Background(), ev))
}
