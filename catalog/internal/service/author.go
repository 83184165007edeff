package service

import (
	"context"

	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

func (s *Service) CreateAuthor(ctx context.Context, req model.AuthorRequest) (model.Author, error) {
	req.DateOfBirth, req.DateOfDeath = normalizeDate(req.DateOfBirth), normalizeDate(req.DateOfDeath)
	author, err := s.repo.CreateAuthor(ctx, req)
	if err != nil {
		return model.Author{}, err
	}
	s.publish(ctx, kafka.EventCatalog{
		EventType: kafka.EventAuthorCreated,
		UserName:  userName(ctx),
		AuthorID:  author.ID,
	})
	return author, nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id int, req model.AuthorRequest) (model.Author, error) {
	req.DateOfBirth, req.DateOfDeath = normalizeDate(req.DateOfBirth), normalizeDate(req.DateOfDeath)
	author, err := s.repo.UpdateAuthor(ctx, id, req)
	if err != nil {
		return model.Author{}, err
	}
	s.publish(ctx, kafka.EventCatalog{
		EventType: kafka.EventAuthorUpdated,
		UserName:  userName(ctx),
		AuthorID:  author.ID,
	})
	return author, nil
}

// DeleteAuthor removes the author; their books stay with no author.
func (s *Service) DeleteAuthor(ctx context.Context, id int) error {
	if err := s.repo.DeleteAuthor(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, kafka.EventCatalog{
		EventType: kafka.EventAuthorDeleted,
		UserName:  userName(ctx),
		AuthorID:  id,
	})
	return nil
}
