package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("set get remove", func(t *testing.T) {
		m := NewMemoryBackend(0, 0)
		require.NoError(t, m.SetItem(ctx, "breed", []byte(`{"breed":"akita"}`)))

		got, err := m.GetItem(ctx, "breed")
		require.NoError(t, err)
		assert.Equal(t, `{"breed":"akita"}`, string(got))

		require.NoError(t, m.RemoveItem(ctx, "breed"))
		_, err = m.GetItem(ctx, "breed")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("quota rejects writes that do not fit", func(t *testing.T) {
		m := NewMemoryBackend(10, 0)
		require.NoError(t, m.SetItem(ctx, "k", []byte("12345")))

		err := m.SetItem(ctx, "other", []byte("123456789"))
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("overwrite reuses the quota of the old value", func(t *testing.T) {
		m := NewMemoryBackend(10, 0)
		require.NoError(t, m.SetItem(ctx, "k", []byte("123456789")))
		require.NoError(t, m.SetItem(ctx, "k", []byte("987654321")))
	})

	t.Run("disabled backend is unavailable", func(t *testing.T) {
		m := NewMemoryBackend(0, 0)
		m.SetDisabled(true)

		assert.ErrorIs(t, m.SetItem(ctx, "k", []byte("v")), ErrUnavailable)
		_, err := m.GetItem(ctx, "k")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, m.RemoveItem(ctx, "k"), ErrUnavailable)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		m := NewMemoryBackend(0, 0)
		value := []byte("abc")
		require.NoError(t, m.SetItem(ctx, "k", value))
		value[0] = 'x'

		got, err := m.GetItem(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))
	})

	t.Run("quota is per namespace", func(t *testing.T) {
		m := NewMemoryBackend(16, 0)
		for _, session := range []string{"s1", "s2", "s3"} {
			require.NoError(t, m.SetItem(ctx, session+":breed", []byte("akita")))
		}
		assert.ErrorIs(t, m.SetItem(ctx, "s1:other", []byte("akita")), ErrQuotaExceeded)
		assert.Equal(t, 3, m.Len())
	})

	t.Run("expired items are gone and free their quota", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		m := NewMemoryBackend(16, 30*time.Minute)
		m.now = func() time.Time { return now }

		require.NoError(t, m.SetItem(ctx, "s1:breed", []byte("akita")))
		assert.ErrorIs(t, m.SetItem(ctx, "s1:other", []byte("akita")), ErrQuotaExceeded)

		now = now.Add(29 * time.Minute)
		_, err := m.GetItem(ctx, "s1:breed")
		require.NoError(t, err)

		now = now.Add(time.Minute)
		_, err = m.GetItem(ctx, "s1:breed")
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, m.SetItem(ctx, "s1:other", []byte("akita")))
	})

	t.Run("writes sweep expired items of other namespaces", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		m := NewMemoryBackend(0, time.Minute)
		m.now = func() time.Time { return now }

		for i := 0; i < 100; i++ {
			require.NoError(t, m.SetItem(ctx, fmt.Sprintf("old-%d:breed", i), []byte("akita")))
		}
		now = now.Add(2 * time.Minute)
		require.NoError(t, m.SetItem(ctx, "fresh:breed", []byte("akita")))

		assert.Equal(t, 1, m.Len())
		assert.Empty(t, m.used["old-0"])
	})
}
