package member_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/svc/member"
)

func seedUsers(store *member.MemoryStore) {
	now := time.Now().UTC()
	store.Put(member.User{
		ID: "u1", Email: "alice@example.com", Name: "Alice", Surname: "Anderson",
		Role: "user", Status: member.StatusActive, CreatedAt: now, UpdatedAt: now,
	})
	store.Put(member.User{
		ID: "u2", Email: "bob@example.com", Name: "Bob", Surname: "Brown",
		Role: "user", Status: member.StatusSuspended, CreatedAt: now.Add(-time.Hour), UpdatedAt: now,
	})
	store.Put(member.User{
		ID: "a1", Email: "carol@example.com", Name: "Carol", Surname: "Clark",
		Role: "admin", Status: member.StatusActive, CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now,
	})
}

func TestServiceList(t *testing.T) {
	t.Parallel()

	store := member.NewMemoryStore()
	seedUsers(store)
	svc := member.NewService(store, nil)

	t.Run("all users newest first", func(t *testing.T) {
		t.Parallel()

		users, err := svc.List(context.Background(), member.SearchFilter{})
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "u1", users[0].ID)
	})

	t.Run("filter by role", func(t *testing.T) {
		t.Parallel()

		users, err := svc.List(context.Background(), member.SearchFilter{Role: "admin"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "a1", users[0].ID)
	})

	t.Run("filter by status", func(t *testing.T) {
		t.Parallel()

		users, err := svc.List(context.Background(), member.SearchFilter{Status: member.StatusSuspended})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u2", users[0].ID)
	})

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		t.Parallel()

		users, err := svc.List(context.Background(), member.SearchFilter{Search: "ALICE"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u1", users[0].ID)
	})

	t.Run("search matches email", func(t *testing.T) {
		t.Parallel()

		users, err := svc.List(context.Background(), member.SearchFilter{Search: "bob@"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u2", users[0].ID)
	})
}

func TestServiceSearchBeyondFirstPage(t *testing.T) {
	t.Parallel()

	store := member.NewMemoryStore()
	now := time.Now().UTC()
	// The oldest record is the only match; it must not be lost behind
	// newer rows the way a filter-after-page scan would lose it.
	store.Put(member.User{
		ID: "needle", Email: "zoe@example.com", Name: "Zoe", Surname: "Zimmer",
		Role: "user", Status: member.StatusActive,
		CreatedAt: now.Add(-200 * time.Hour), UpdatedAt: now,
	})
	for i := 0; i < 150; i++ {
		store.Put(member.User{
			ID: fmt.Sprintf("u%03d", i), Email: fmt.Sprintf("user%03d@example.com", i),
			Name: "Filler", Surname: "Person", Role: "user", Status: member.StatusActive,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute), UpdatedAt: now,
		})
	}
	svc := member.NewService(store, nil)

	users, err := svc.List(context.Background(), member.SearchFilter{Search: "zoe"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "needle", users[0].ID)
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("patches only provided fields", func(t *testing.T) {
		t.Parallel()

		store := member.NewMemoryStore()
		seedUsers(store)
		svc := member.NewService(store, nil)

		phone := "+1-555-0100"
		updated, err := svc.Update(context.Background(), "u1", member.UpdateParams{Phone: &phone})
		require.NoError(t, err)
		require.NotNil(t, updated.Phone)
		assert.Equal(t, phone, *updated.Phone)
		assert.Equal(t, "Alice", updated.Name)
		assert.Equal(t, member.StatusActive, updated.Status)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()

		svc := member.NewService(member.NewMemoryStore(), nil)
		name := "Nobody"
		_, err := svc.Update(context.Background(), "missing", member.UpdateParams{Name: &name})
		assert.ErrorIs(t, err, member.ErrUserNotFound)
	})
}

func TestServiceSuspendAndDelete(t *testing.T) {
	t.Parallel()

	store := member.NewMemoryStore()
	seedUsers(store)
	svc := member.NewService(store, nil)

	suspended, err := svc.Suspend(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, member.StatusSuspended, suspended.Status)

	require.NoError(t, svc.Delete(context.Background(), "u1"))

	_, err = svc.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, member.ErrUserNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), "u1"), member.ErrUserNotFound)
}

func TestFullName(t *testing.T) {
	t.Parallel()

	u := member.User{Name: "Alice", Surname: "Anderson"}
	assert.Equal(t, "Alice Anderson", u.FullName())

	u = member.User{Name: "Cher"}
	assert.Equal(t, "Cher", u.FullName())
}
