package handlers

import (
	"Inventaris/internal/config"
	"Inventaris/internal/middleware"
	"Inventaris/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services: всё, что нужно HTTP-слою.
type Services struct {
	Catalog *service.Catalog
	Ledger  *service.Ledger
	Users   *service.UserService
	Auditor *service.Auditor
}

// anyOrigin: разрешён любой источник. Тогда cookie с чужих сайтов не принимаем.
func anyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// NewHandler разводящий для хендлеров
func NewHandler(svc Services, logger *zap.SugaredLogger, config *config.Config) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5, "application/json", "text/csv"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !anyOrigin(config.AllowedOrigins),
		MaxAge:           300,
	}))
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(svc.Users, logger, config)
	itemHandler := NewItemHandler(svc.Catalog, logger)
	borrowingHandler := NewBorrowingHandler(svc.Ledger, logger)
	auditHandler := NewAuditHandler(svc.Auditor, logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/login", userHandler.Login)
	r.Post("/api/logout", userHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/me", userHandler.Me)

		// Items
		r.Get("/api/items", itemHandler.List)
		r.Post("/api/items", itemHandler.Create)
		r.Put("/api/items/{id}", itemHandler.Update)
		r.Delete("/api/items/{id}", itemHandler.Delete)

		// Borrowings
		r.Post("/api/borrow", borrowingHandler.Borrow)
		r.Post("/api/return", borrowingHandler.Return)
		r.Get("/api/my-borrowings", borrowingHandler.Mine)
		r.Get("/api/all-borrowings", borrowingHandler.All)
		r.Get("/api/all-borrowings/export.csv", borrowingHandler.ExportCSV)

		// Users
		r.Get("/api/users", userHandler.List)
		r.Post("/api/users", userHandler.Create)
		r.Delete("/api/users/{id}", userHandler.Delete)

		r.Get("/api/audit", auditHandler.Check)
	})

	return &Handler{Router: r}
}
