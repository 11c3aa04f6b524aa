package profile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apotheca/pkg/platform/sentinel"
)

func Test_Set_Get(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := Profile{UID: "u1", Email: "a@x.com", Role: RoleUser}
	require.NoError(t, store.Set(ctx, p))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, RoleUser, got.Role)
	assert.False(t, got.CreatedAt.IsZero(), "store assigns the creation timestamp")

	_, err = store.Get(ctx, "unknown")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func Test_Set_DuplicateUID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, Profile{UID: "u1", Email: "a@x.com", Role: RoleUser}))
	require.ErrorIs(t, store.Set(ctx, Profile{UID: "u1", Email: "b@x.com", Role: RoleUser}), sentinel.ErrConflict)
}

func Test_SetLastPasswordReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, Profile{UID: "u1", Email: "a@x.com", Role: RoleUser}))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.SetLastPasswordReset(ctx, "u1", at))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, at, got.LastPasswordReset)

	require.ErrorIs(t, store.SetLastPasswordReset(ctx, "unknown", at), sentinel.ErrNotFound)
}

func Test_MutateFavorites_ErrorAbortsWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, Profile{UID: "u1", Email: "a@x.com", Role: RoleUser, Favorites: []string{"ph1"}}))

	boom := assert.AnError
	_, err := store.MutateFavorites(ctx, "u1", func(current []string) ([]string, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ph1"}, got.Favorites)
}

// Two concurrent unions over the same profile must both land: the mutate
// callback runs inside the store's critical section, so there is no window
// for a lost update.
func Test_MutateFavorites_NoLostUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, Profile{UID: "u1", Email: "a@x.com", Role: RoleUser}))

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.MutateFavorites(ctx, "u1", func(current []string) ([]string, error) {
				return append(current, string(rune('a'+n))), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got.Favorites, writers)
}
