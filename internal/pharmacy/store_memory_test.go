package pharmacy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apotheca/pkg/platform/sentinel"
)

func seedPharmacy(t *testing.T, store *MemoryStore) Pharmacy {
	t.Helper()
	p := Pharmacy{Name: "Central Pharmacy", Address: "1 Main St", Phone: "555-0100"}
	require.NoError(t, store.Save(context.Background(), p))
	list, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0]
}

func Test_Save_AssignsIDAndTimestamp(t *testing.T) {
	store := NewMemoryStore()
	p := seedPharmacy(t, store)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func Test_Get_Exists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := seedPharmacy(t, store)

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central Pharmacy", got.Name)

	_, err = store.Get(ctx, "unknown")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	ok, err := store.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Exists(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_Comments_Subcollection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := seedPharmacy(t, store)

	added, err := store.AddComment(ctx, p.ID, Comment{UserID: "u1", Comment: "Great service!", Stars: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	got, err := store.GetComment(ctx, p.ID, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	all, err := store.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.DeleteComment(ctx, p.ID, added.ID))
	_, err = store.GetComment(ctx, p.ID, added.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.ErrorIs(t, store.DeleteComment(ctx, p.ID, added.ID), sentinel.ErrNotFound)
}

func Test_Comments_ParentMustExist(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.AddComment(ctx, "unknown", Comment{UserID: "u1", Comment: "hi", Stars: 3})
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = store.ListComments(ctx, "unknown")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
