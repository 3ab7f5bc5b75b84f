package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildStore(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newGuildStore(time.Hour)
	store.now = func() time.Time { return now }

	store.Put("login-a", []Guild{{ID: "1", Name: "One"}})

	guilds, ok := store.Get("login-a")
	require.True(t, ok)
	assert.Equal(t, "One", guilds[0].Name)

	_, ok = store.Get("login-b")
	assert.False(t, ok)

	t.Run("expired logins are forgotten", func(t *testing.T) {
		now = now.Add(2 * time.Hour)
		_, ok := store.Get("login-a")
		assert.False(t, ok)
		assert.Zero(t, store.Len())
	})

	t.Run("put prunes expired logins", func(t *testing.T) {
		store.Put("login-c", nil)
		now = now.Add(2 * time.Hour)
		store.Put("login-d", nil)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("delete", func(t *testing.T) {
		store.Delete("login-d")
		assert.Zero(t, store.Len())
	})
}
