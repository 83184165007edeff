package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string        `yaml:"addr" envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `yaml:"password" json:"-" envconfig:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" envconfig:"REDIS_DB"`
	TTL      time.Duration `yaml:"ttl" envconfig:"SESSION_TTL" default:"336h"`
}

const visitsKeyPrefix = "session:visits:"

// Store keeps per-session counters in redis, refreshing the TTL on every write.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(cfg Config) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.TTL,
	}
}

// Visit records one more visit for the session and returns the count before it.
func (s *Store) Visit(ctx context.Context, sessionID string) (int, error) {
	key := visitsKeyPrefix + sessionID
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()) - 1, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
