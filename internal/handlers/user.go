package handlers

import (
	"Inventaris/internal/config"
	"Inventaris/internal/middleware"
	"Inventaris/internal/model"
	"Inventaris/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler: вход и управление пользователями.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type createUserRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

type meResponse struct {
	ID   int64      `json:"id"`
	Name string     `json:"name"`
	Role model.Role `json:"role"`
}

// Login проверяет пароль и отдаёт JWT в теле и в cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		badRequest(w, r, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		badRequest(w, r, "username and password are required")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.Logger.Infow("Login failed", "username", req.Username)
		writeServiceError(w, r, h.Logger, "Login", err)
		return
	}

	token, err := middleware.SetLoginCookie(w, user, h.Config.AuthSecret)
	if err != nil {
		h.Logger.Errorw("Login: failed to issue token", "user_id", user.ID, "error", err)
		writeError(w, r, "failed to issue token", "STORAGE_ERROR", http.StatusInternalServerError)
		return
	}
	h.Logger.Infow("User logged in", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"result": "logged out"})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	c := caller(r)
	writeJSON(w, http.StatusOK, meResponse{ID: c.UserID, Name: c.Name, Role: c.Role})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context(), caller(r))
	if err != nil {
		writeServiceError(w, r, h.Logger, "List users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Create user: invalid request body", "error", err)
		badRequest(w, r, "invalid request body")
		return
	}
	u, err := h.UserService.Create(r.Context(), caller(r), req.Username, req.Password, req.Name, req.Role)
	if err != nil {
		writeServiceError(w, r, h.Logger, "Create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, r, "invalid user id")
		return
	}
	if err := h.UserService.Delete(r.Context(), caller(r), id); err != nil {
		writeServiceError(w, r, h.Logger, "Delete user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
