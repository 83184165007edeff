package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/catalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ CatalogService = (*service.Service)(nil)

type CatalogService interface {
	Index(ctx context.Context, sessionID string) (model.Index, error)
	Login(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error)

	ListBooks(ctx context.Context, page int) (model.ListBooks, error)
	GetBook(ctx context.Context, id int) (model.BookDetail, error)

	ListAuthors(ctx context.Context, page int) (model.ListAuthors, error)
	GetAuthor(ctx context.Context, id int) (model.AuthorDetail, error)
	CreateAuthor(ctx context.Context, req model.AuthorRequest) (model.Author, error)
	UpdateAuthor(ctx context.Context, id int, req model.AuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error

	ListMyBorrowed(ctx context.Context, username string, page int) (model.ListBookInstances, error)
	ListAllBorrowed(ctx context.Context, page int) (model.ListBookInstances, error)
	RenewForm(ctx context.Context, id uuid.UUID) (model.RenewForm, error)
	RenewBook(ctx context.Context, id uuid.UUID, req model.RenewRequest) (model.RenewForm, error)

	GetStats(ctx context.Context) (model.StatsInfo, error)
}
