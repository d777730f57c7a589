package handlers

import (
	"Inventaris/internal/model"
	"Inventaris/internal/service"
	"net/http"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// BorrowingHandler: выдачи и возвраты.
type BorrowingHandler struct {
	Ledger *service.Ledger
	Logger *zap.SugaredLogger
}

func NewBorrowingHandler(ledger *service.Ledger, logger *zap.SugaredLogger) *BorrowingHandler {
	return &BorrowingHandler{Ledger: ledger, Logger: logger}
}

type borrowRequest struct {
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
	Purpose  string `json:"purpose"`
	// BorrowerName: выдача человеку без аккаунта, только для админа.
	BorrowerName string `json:"borrower_name,omitempty"`
}

type returnRequest struct {
	BorrowingID   int64  `json:"borrowing_id"`
	ConditionNote string `json:"condition_note"`
}

func (h *BorrowingHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Borrow: invalid request body", "error", err)
		badRequest(w, r, "invalid request body")
		return
	}
	b, err := h.Ledger.Borrow(r.Context(), service.BorrowRequest{
		ItemID:     req.ItemID,
		Caller:     caller(r),
		OnBehalfOf: req.BorrowerName,
		Quantity:   req.Quantity,
		Purpose:    req.Purpose,
	})
	if err != nil {
		writeServiceError(w, r, h.Logger, "Borrow", err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BorrowingHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Return: invalid request body", "error", err)
		badRequest(w, r, "invalid request body")
		return
	}
	b, err := h.Ledger.Return(r.Context(), caller(r), req.BorrowingID, req.ConditionNote)
	if err != nil {
		writeServiceError(w, r, h.Logger, "Return", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BorrowingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := h.Ledger.ListForUser(r.Context(), caller(r).UserID)
	if err != nil {
		writeServiceError(w, r, h.Logger, "My borrowings", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BorrowingHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.Ledger.ListAll(r.Context(), caller(r))
	if err != nil {
		writeServiceError(w, r, h.Logger, "All borrowings", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// borrowingRow: строка CSV-выгрузки.
type borrowingRow struct {
	ID            int64  `csv:"id"`
	ItemID        int64  `csv:"item_id"`
	ItemName      string `csv:"item_name"`
	Borrower      string `csv:"borrower_name"`
	UserID        string `csv:"user_id"`
	Quantity      int    `csv:"quantity"`
	Purpose       string `csv:"purpose"`
	BorrowDate    string `csv:"borrow_date"`
	ReturnDate    string `csv:"return_date"`
	ConditionNote string `csv:"condition_note"`
	Status        string `csv:"status"`
}

func toRow(b model.Borrowing) borrowingRow {
	row := borrowingRow{
		ID:         b.ID,
		ItemID:     b.ItemID,
		ItemName:   b.ItemName,
		Borrower:   b.BorrowerName,
		Quantity:   b.Quantity,
		Purpose:    b.Purpose,
		BorrowDate: b.BorrowDate.UTC().Format(time.RFC3339),
		Status:     string(b.Status),
	}
	if b.UserID != nil {
		row.UserID = strconv.FormatInt(*b.UserID, 10)
	}
	if b.ReturnDate != nil {
		row.ReturnDate = b.ReturnDate.UTC().Format(time.RFC3339)
	}
	if b.ConditionNote != nil {
		row.ConditionNote = *b.ConditionNote
	}
	return row
}

// ExportCSV отдаёт все выдачи в CSV.
func (h *BorrowingHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	list, err := h.Ledger.ListAll(r.Context(), caller(r))
	if err != nil {
		writeServiceError(w, r, h.Logger, "Export borrowings", err)
		return
	}
	rows := make([]borrowingRow, 0, len(list))
	for _, b := range list {
		rows = append(rows, toRow(b))
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="borrowings.csv"`)
	if err := gocsv.Marshal(rows, w); err != nil {
		h.Logger.Errorw("Export borrowings: csv encode", "error", err)
	}
}
