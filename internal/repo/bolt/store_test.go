package bolt

import (
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "inventaris.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestItems_CRUDAndAdjust(t *testing.T) {
	s := newTestStore(t)
	r := s.Items()
	ctx := context.Background()

	a := &model.Item{Name: "projector", Stock: 2, Baseline: 2}
	b := &model.Item{Name: "camera", Stock: 1, Baseline: 1}
	require.NoError(t, r.Insert(ctx, a))
	require.NoError(t, r.Insert(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	if assert.Len(t, all, 2) {
		assert.Equal(t, "projector", all[0].Name)
		assert.Equal(t, "camera", all[1].Name)
	}

	got, err := r.AdjustStock(ctx, a.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	_, err = r.AdjustStock(ctx, a.ID, -1)
	assert.ErrorIs(t, err, repo.ErrNegativeStock)
	_, err = r.AdjustStock(ctx, 99, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	b.Name = "camera canon"
	b.Stock = 4
	b.Baseline = 4
	require.NoError(t, r.Update(ctx, b))
	got, err = r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "camera canon", got.Name)
	assert.Equal(t, 4, got.Stock)
	// created_at не переписывается
	assert.WithinDuration(t, b.CreatedAt, got.CreatedAt, time.Millisecond)

	assert.ErrorIs(t, r.Update(ctx, &model.Item{ID: 42}), repo.ErrNotFound)
	require.NoError(t, r.Delete(ctx, b.ID))
	assert.ErrorIs(t, r.Delete(ctx, b.ID), repo.ErrNotFound)
}

func TestBorrowings_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	r := s.Borrowings()
	ctx := context.Background()
	uid := int64(3)
	base := time.Now().UTC().Add(-time.Hour)

	first := &model.Borrowing{ItemID: 1, UserID: &uid, Quantity: 1, Purpose: "seminar", BorrowDate: base, Status: model.StatusBorrowed}
	second := &model.Borrowing{ItemID: 1, BorrowerName: "guest", Quantity: 2, Purpose: "event", BorrowDate: base.Add(time.Minute), Status: model.StatusBorrowed}
	require.NoError(t, r.Insert(ctx, first))
	require.NoError(t, r.Insert(ctx, second))

	n, err := r.OutstandingQuantity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, r.MarkReturned(ctx, first.ID, time.Now().UTC(), "good condition"))
	assert.ErrorIs(t, r.MarkReturned(ctx, first.ID, time.Now().UTC(), "twice"), repo.ErrNotFound)

	got, err := r.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, got.Status)
	assert.True(t, got.Valid())

	n, _ = r.OutstandingQuantity(ctx, 1)
	assert.Equal(t, 2, n)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	if assert.Len(t, all, 2) {
		assert.Equal(t, second.ID, all[0].ID)
	}
	mine, err := r.ListByUser(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, r.Delete(ctx, second.ID))
	_, err = r.GetByID(ctx, second.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUsers_KeepPasswordHash(t *testing.T) {
	s := newTestStore(t)
	r := s.Users()
	ctx := context.Background()

	u, err := r.CreateUser(ctx, &model.User{Login: "admin", Password: "$2a$hash", Name: "Administrator", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = r.CreateUser(ctx, &model.User{Login: "admin", Password: "x", Name: "Other"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	got, err := r.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "$2a$hash", got.Password)
	assert.Equal(t, model.RoleAdmin, got.Role)

	_, err = r.GetUserByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, r.Delete(ctx, u.ID))
	_, err = r.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventaris.bolt")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Items().Insert(context.Background(), &model.Item{Name: "tripod", Stock: 2, Baseline: 2}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.Items().ListAll(context.Background())
	require.NoError(t, err)
	if assert.Len(t, all, 1) {
		assert.Equal(t, "tripod", all[0].Name)
	}
}
