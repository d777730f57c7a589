package commands

import (
	"Inventaris/internal/config"
	"Inventaris/internal/handlers"
	"Inventaris/internal/lock"
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"Inventaris/internal/service"
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// withTempConfig даёт конфиг, у которого токен лежит во временном каталоге.
func withTempConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL: serverURL,
		TokenFile: filepath.Join(t.TempDir(), "inventaris", "token"),
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// newTestServer поднимает настоящий API поверх sqlite во временном каталоге
// с админом admin/admin123, пользователем alice/user123 и одним предметом.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := repo.InitDB(repo.DriverSQLite, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := zap.NewNop().Sugar()
	borrowings := repo.NewBorrowingRepository(db)
	catalog := service.NewCatalog(repo.NewItemRepository(db), borrowings, lock.NewKeyed(), logger)
	svc := handlers.Services{
		Catalog: catalog,
		Ledger:  service.NewLedger(catalog, borrowings, logger),
		Users:   service.NewUserService(repo.NewUserRepository(db)),
		Auditor: service.NewAuditor(catalog, logger),
	}

	ctx := context.Background()
	_, err = svc.Users.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	admin, err := svc.Users.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	root := service.CallerFromUser(admin)
	_, err = svc.Users.Create(ctx, root, "alice", "user123", "Alice", model.RoleUser)
	require.NoError(t, err)
	_, err = catalog.Create(ctx, root, "Projector", "XGA", 2)
	require.NoError(t, err)

	h := handlers.NewHandler(svc, logger, &config.Config{AuthSecret: "cli-secret", AllowedOrigins: []string{"*"}})
	ts := httptest.NewServer(h.Router)
	t.Cleanup(ts.Close)
	return ts
}
