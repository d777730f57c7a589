package handlers_test

import (
	"Inventaris/internal/model"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestItems_CRUD(t *testing.T) {
	e := newTestEnv(t)

	t.Run("create is admin only", func(t *testing.T) {
		rr := e.do(t, e.alice, http.MethodPost, "/api/items", map[string]any{"name": "X", "stock": 1})
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "FORBIDDEN", decode[errBody](t, rr).Code)
	})

	proj := e.createItem(t, "Projector", 2)
	assert.Equal(t, 2, proj.Stock)
	assert.Equal(t, 2, proj.Baseline)

	t.Run("validation", func(t *testing.T) {
		rr := e.do(t, e.admin, http.MethodPost, "/api/items", map[string]any{"name": "", "stock": 1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode[errBody](t, rr).Code)

		rr = e.do(t, e.admin, http.MethodPost, "/api/items", map[string]any{"name": "Y", "stock": -1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list for any user", func(t *testing.T) {
		e.createItem(t, "Camera", 1)
		rr := e.do(t, e.alice, http.MethodGet, "/api/items", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		items := decode[[]model.Item](t, rr)
		require.Len(t, items, 2)
		assert.Equal(t, "Projector", items[0].Name)
	})

	t.Run("update", func(t *testing.T) {
		rr := e.do(t, e.admin, http.MethodPut, "/api/items/"+itoa(proj.ID), map[string]any{"name": "Projector Epson", "stock": 4})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		got := decode[model.Item](t, rr)
		assert.Equal(t, "Projector Epson", got.Name)
		assert.Equal(t, 4, got.Stock)
		assert.Equal(t, 4, got.Baseline)

		// закрытый набор полей: id и baseline менять нельзя
		rr = e.do(t, e.admin, http.MethodPut, "/api/items/"+itoa(proj.ID), map[string]any{"baseline": 100})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = e.do(t, e.admin, http.MethodPut, "/api/items/"+itoa(proj.ID), map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = e.do(t, e.admin, http.MethodPut, "/api/items/999", map[string]any{"stock": 1})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "NOT_FOUND", decode[errBody](t, rr).Code)

		rr = e.do(t, e.alice, http.MethodPut, "/api/items/"+itoa(proj.ID), map[string]any{"stock": 1})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("delete refused while on loan", func(t *testing.T) {
		rr := e.do(t, e.alice, http.MethodPost, "/api/borrow", map[string]any{"item_id": proj.ID, "quantity": 1, "purpose": "seminar"})
		require.Equal(t, http.StatusCreated, rr.Code)
		b := decode[model.Borrowing](t, rr)

		rr = e.do(t, e.admin, http.MethodDelete, "/api/items/"+itoa(proj.ID), nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "ITEM_ON_LOAN", decode[errBody](t, rr).Code)

		rr = e.do(t, e.alice, http.MethodPost, "/api/return", map[string]any{"borrowing_id": b.ID, "condition_note": "ok"})
		require.Equal(t, http.StatusOK, rr.Code)

		rr = e.do(t, e.admin, http.MethodDelete, "/api/items/"+itoa(proj.ID), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
