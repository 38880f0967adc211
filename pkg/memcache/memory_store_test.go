package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, s.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(2 * time.Minute)

	_, err := s.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)

	got, err := s.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Second))
	require.NoError(t, s.Set(ctx, "c", []byte("3"), 0))

	now = now.Add(time.Hour)
	assert.Equal(t, 2, s.Sweep())
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf, 0))
	buf[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_SweepEvery(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return now })
	require.NoError(t, s.Set(context.Background(), "stale", []byte("a"), time.Minute))
	require.NoError(t, s.Set(context.Background(), "kept", []byte("b"), 0))

	later := now.Add(time.Hour)
	s.WithClock(func() time.Time { return later })

	removed := make(chan int, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SweepEvery(ctx, 5*time.Millisecond, func(n int) {
			if n > 0 {
				select {
				case removed <- n:
				default:
				}
			}
		})
	}()

	select {
	case n := <-removed:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("sweeper never removed the expired entry")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}

	assert.Len(t, s.data, 1)
	_, ok := s.data["kept"]
	assert.True(t, ok)
}
