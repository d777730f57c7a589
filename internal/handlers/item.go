package handlers

import (
	"Inventaris/internal/model"
	"Inventaris/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// ItemHandler: CRUD каталога.
type ItemHandler struct {
	Catalog *service.Catalog
	Logger  *zap.SugaredLogger
}

// NewItemHandler создаёт хендлер items
func NewItemHandler(catalog *service.Catalog, logger *zap.SugaredLogger) *ItemHandler {
	return &ItemHandler{Catalog: catalog, Logger: logger}
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stock       int    `json:"stock"`
}

// updateItemRequest: только изменяемые поля; id, baseline и даты сюда не попадают.
type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Stock       *int    `json:"stock"`
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Logger, "List items", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Create item: invalid request body", "error", err)
		badRequest(w, r, "invalid request body")
		return
	}
	it, err := h.Catalog.Create(r.Context(), caller(r), req.Name, req.Description, req.Stock)
	if err != nil {
		writeServiceError(w, r, h.Logger, "Create item", err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, r, "invalid item id")
		return
	}
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Update item: invalid request body", "item_id", id, "error", err)
		badRequest(w, r, "invalid request body")
		return
	}
	patch := model.ItemPatch{Name: req.Name, Description: req.Description, Stock: req.Stock}
	it, err := h.Catalog.Update(r.Context(), caller(r), id, patch)
	if err != nil {
		writeServiceError(w, r, h.Logger, "Update item", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, r, "invalid item id")
		return
	}
	if err := h.Catalog.Delete(r.Context(), caller(r), id); err != nil {
		writeServiceError(w, r, h.Logger, "Delete item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
