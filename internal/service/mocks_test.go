package service

import (
	"Inventaris/internal/lock"
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// мок для repo.ItemRepository
type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) Insert(ctx context.Context, it *model.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	args := m.Called(ctx, id)
	if it, ok := args.Get(0).(*model.Item); ok {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) Update(ctx context.Context, it *model.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockItemRepo) ListAll(ctx context.Context) ([]model.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Error(1)
}

func (m *mockItemRepo) AdjustStock(ctx context.Context, id int64, delta int) (*model.Item, error) {
	args := m.Called(ctx, id, delta)
	if it, ok := args.Get(0).(*model.Item); ok {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.ItemRepository = (*mockItemRepo)(nil)

// мок для repo.BorrowingRepository
type mockBorrowingRepo struct{ mock.Mock }

func (m *mockBorrowingRepo) Insert(ctx context.Context, b *model.Borrowing) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBorrowingRepo) GetByID(ctx context.Context, id int64) (*model.Borrowing, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*model.Borrowing); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBorrowingRepo) MarkReturned(ctx context.Context, id int64, at time.Time, note string) error {
	return m.Called(ctx, id, at, note).Error(0)
}

func (m *mockBorrowingRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBorrowingRepo) ListAll(ctx context.Context) ([]model.Borrowing, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Borrowing)
	return list, args.Error(1)
}

func (m *mockBorrowingRepo) ListByUser(ctx context.Context, userID int64) ([]model.Borrowing, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Borrowing)
	return list, args.Error(1)
}

func (m *mockBorrowingRepo) OutstandingQuantity(ctx context.Context, itemID int64) (int, error) {
	args := m.Called(ctx, itemID)
	return args.Int(0), args.Error(1)
}

var _ repo.BorrowingRepository = (*mockBorrowingRepo)(nil)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

var (
	admin = Caller{UserID: 1, Name: "Admin", Role: model.RoleAdmin}
	alice = Caller{UserID: 2, Name: "Alice", Role: model.RoleUser}
	bob   = Caller{UserID: 3, Name: "Bob", Role: model.RoleUser}
)

// env: сервисы поверх настоящего sqlite во временном каталоге.
type env struct {
	items      repo.ItemRepository
	borrowings repo.BorrowingRepository
	users      repo.UserRepository
	catalog    *Catalog
	ledger     *Ledger
	auditor    *Auditor
	userSvc    *UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repo.InitDB(repo.DriverSQLite, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zap.NewNop().Sugar()
	e := &env{
		items:      repo.NewItemRepository(db),
		borrowings: repo.NewBorrowingRepository(db),
		users:      repo.NewUserRepository(db),
	}
	e.catalog = NewCatalog(e.items, e.borrowings, lock.NewKeyed(), log)
	e.ledger = NewLedger(e.catalog, e.borrowings, log)
	e.auditor = NewAuditor(e.catalog, log)
	e.userSvc = NewUserService(e.users)
	return e
}

// newMockLedger собирает каталог и журнал поверх моков.
func newMockLedger(items *mockItemRepo, borrowings *mockBorrowingRepo) (*Catalog, *Ledger) {
	log := zap.NewNop().Sugar()
	c := NewCatalog(items, borrowings, lock.NewKeyed(), log)
	return c, NewLedger(c, borrowings, log)
}
