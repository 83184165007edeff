package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

func (r *repository) RecordEvent(ctx context.Context, event kafka.EventCatalog) error {
	q := `insert into catalog_event (ts, event_type, username, instance_id, author_id, due_back)
	values (@ts, @event_type, @username, @instance_id, @author_id, @due_back)`
	args := pgx.NamedArgs{
		"ts":          event.Timestamp,
		"event_type":  string(event.EventType),
		"username":    event.UserName,
		"instance_id": nullable(event.InstanceID),
		"author_id":   nullable(event.AuthorID),
		"due_back":    nullable(event.DueBack),
	}
	_, err := r.db.Exec(ctx, q, args)
	return mapPgError(err)
}

func (r *repository) GetStats(ctx context.Context) (model.StatsInfo, error) {
	const q = `
	select username, max(ts) as last_updated,
	       count(*) filter (where event_type = 'instance_renewed') as renewals,
	       count(*) filter (where event_type = 'author_created')   as authors_created,
	       count(*) filter (where event_type = 'author_updated')   as authors_updated,
	       count(*) filter (where event_type = 'author_deleted')   as authors_deleted
	from catalog_event
	group by username
	order by username
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return model.StatsInfo{}, err
	}
	defer rows.Close()
	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Stats])
	if err != nil {
		return model.StatsInfo{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return model.StatsInfo{Data: stats}, nil
}

// nullable maps the zero value of an optional event attribute to NULL.
func nullable[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}
	return v
}
