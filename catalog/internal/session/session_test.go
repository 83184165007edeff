package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestStore_Visit(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewStore(Config{Addr: mr.Addr(), TTL: time.Hour})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	for want := 0; want < 3; want++ {
		got, err := s.Visit(ctx, "abc")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	got, err := s.Visit(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, 0, got)

	require.Equal(t, time.Hour, mr.TTL(visitsKeyPrefix+"abc"))
}

func TestStore_VisitExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewStore(Config{Addr: mr.Addr(), TTL: time.Minute})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	_, err := s.Visit(ctx, "abc")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	got, err := s.Visit(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestStore_VisitRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewStore(Config{Addr: mr.Addr(), TTL: time.Minute})
	t.Cleanup(func() { _ = s.Close() })
	mr.Close()

	_, err := s.Visit(context.Background(), "abc")
	require.Error(t, err)
}
