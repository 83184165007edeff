package service

import (
	"context"

	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

// GetStats returns catalog activity per user.
func (s *Service) GetStats(ctx context.Context) (model.StatsInfo, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return model.StatsInfo{}, err
	}
	stats.Data = nonNil(stats.Data)
	return stats, nil
}

// RecordEvent is used by the catalog events consumer.
func (s *Service) RecordEvent(ctx context.Context, event kafka.EventCatalog) error {
	return s.repo.RecordEvent(ctx, event)
}
