package service

import (
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Ledger: журнал выдач и возвратов.
type Ledger struct {
	catalog    *Catalog
	borrowings repo.BorrowingRepository
	logger     *zap.SugaredLogger
	now        func() time.Time
}

// NewLedger создаёт журнал. Блокировки предметов берутся через каталог,
// поэтому выдача и правка одного предмета сериализуются на одном ключе.
func NewLedger(catalog *Catalog, borrowings repo.BorrowingRepository, logger *zap.SugaredLogger) *Ledger {
	return &Ledger{
		catalog:    catalog,
		borrowings: borrowings,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock подменяет часы (для тестов).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// BorrowRequest: параметры выдачи.
// OnBehalfOf: имя человека без аккаунта, на которого админ оформляет выдачу.
type BorrowRequest struct {
	ItemID     int64
	Caller     Caller
	OnBehalfOf string
	Quantity   int
	Purpose    string
}

// borrower определяет, на кого записать выдачу. Оформить на чужое имя может только админ.
func (req BorrowRequest) borrower() (model.Borrower, error) {
	if name := strings.TrimSpace(req.OnBehalfOf); name != "" {
		if err := Authorize(req.Caller, model.RoleAdmin); err != nil {
			return model.Borrower{}, err
		}
		return model.Borrower{Name: name}, nil
	}
	if err := Authorize(req.Caller, model.RoleUser); err != nil {
		return model.Borrower{}, err
	}
	uid := req.Caller.UserID
	return model.Borrower{UserID: &uid, Name: strings.TrimSpace(req.Caller.Name)}, nil
}

// Borrow выдаёт quantity штук предмета.
// Остаток уменьшается, затем пишется запись; если запись не удалась, остаток возвращается.
func (l *Ledger) Borrow(ctx context.Context, req BorrowRequest) (*model.Borrowing, error) {
	borrower, err := req.borrower()
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, validationf("quantity must be >= 1, got %d", req.Quantity)
	}
	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return nil, validationf("purpose is required")
	}

	unlock, err := l.catalog.lockItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	it, err := l.catalog.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, fromRepo(fmt.Sprintf("item %d", req.ItemID), err)
	}
	if it.Stock < req.Quantity {
		return nil, fmt.Errorf("%w: item %d has %d available, requested %d", ErrInsufficientStock, it.ID, it.Stock, req.Quantity)
	}

	b := &model.Borrowing{
		ItemID:       it.ID,
		ItemName:     it.Name,
		UserID:       borrower.UserID,
		BorrowerName: borrower.Name,
		Quantity:     req.Quantity,
		Purpose:      purpose,
		BorrowDate:   l.now(),
		Status:       model.StatusBorrowed,
	}
	q := req.Quantity
	fields := []any{"op", "borrow", "item_id", it.ID, "delta", -q}

	err = runSteps(ctx, l.logger, fields,
		step{
			name: "decrement stock",
			do:   func(ctx context.Context) error { _, err := l.catalog.adjustStockLocked(ctx, it.ID, -q); return err },
			undo: func(ctx context.Context) error { _, err := l.catalog.adjustStockLocked(ctx, it.ID, q); return err },
		},
		step{
			name: "insert borrowing",
			do:   func(ctx context.Context) error { return fromRepo("insert borrowing", l.borrowings.Insert(ctx, b)) },
		},
	)
	if err != nil {
		return nil, err
	}

	l.logger.Infow("item borrowed", "borrowing_id", b.ID, "item_id", it.ID, "quantity", q, "user_id", b.UserID)
	return b, nil
}

// Return закрывает выдачу. Вернуть может владелец записи или админ.
// Остаток увеличивается, затем запись закрывается; если закрыть не удалось, остаток откатывается.
func (l *Ledger) Return(ctx context.Context, caller Caller, borrowingID int64, conditionNote string) (*model.Borrowing, error) {
	if err := Authorize(caller, model.RoleUser); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(conditionNote)
	if note == "" {
		return nil, validationf("condition note is required")
	}

	b, err := l.openBorrowing(ctx, borrowingID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !b.OwnedBy(caller.UserID) {
		return nil, fmt.Errorf("%w: borrowing %d belongs to another user", ErrForbidden, borrowingID)
	}

	unlock, err := l.catalog.lockItem(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// перечитываем под блокировкой: параллельный возврат мог успеть раньше
	if b, err = l.openBorrowing(ctx, borrowingID); err != nil {
		return nil, err
	}

	at := l.now()
	q := b.Quantity
	fields := []any{"op", "return", "item_id", b.ItemID, "borrowing_id", b.ID, "delta", q}

	err = runSteps(ctx, l.logger, fields,
		step{
			name: "restore stock",
			do:   func(ctx context.Context) error { _, err := l.catalog.adjustStockLocked(ctx, b.ItemID, q); return err },
			undo: func(ctx context.Context) error { _, err := l.catalog.adjustStockLocked(ctx, b.ItemID, -q); return err },
		},
		step{
			name: "mark returned",
			do: func(ctx context.Context) error {
				return fromRepo(fmt.Sprintf("mark borrowing %d returned", b.ID), l.borrowings.MarkReturned(ctx, b.ID, at, note))
			},
		},
	)
	if err != nil {
		return nil, err
	}

	b.Status = model.StatusReturned
	b.ReturnDate = &at
	b.ConditionNote = &note
	l.logger.Infow("item returned", "borrowing_id", b.ID, "item_id", b.ItemID, "quantity", q, "by", caller.UserID)
	return b, nil
}

func (l *Ledger) openBorrowing(ctx context.Context, id int64) (*model.Borrowing, error) {
	b, err := l.borrowings.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(fmt.Sprintf("borrowing %d", id), err)
	}
	if b.Status != model.StatusBorrowed {
		return nil, fmt.Errorf("%w: borrowing %d is already returned", ErrNotFound, id)
	}
	return b, nil
}

// ListForUser: выдачи пользователя, новые сверху.
func (l *Ledger) ListForUser(ctx context.Context, userID int64) ([]model.Borrowing, error) {
	list, err := l.borrowings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fromRepo("list borrowings", err)
	}
	return newestFirst(list), nil
}

// ListAll: все выдачи, только для админа.
func (l *Ledger) ListAll(ctx context.Context, caller Caller) ([]model.Borrowing, error) {
	if err := Authorize(caller, model.RoleAdmin); err != nil {
		return nil, err
	}
	list, err := l.borrowings.ListAll(ctx)
	if err != nil {
		return nil, fromRepo("list borrowings", err)
	}
	return newestFirst(list), nil
}

func newestFirst(list []model.Borrowing) []model.Borrowing {
	if list == nil {
		return []model.Borrowing{}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].BorrowDate.Equal(list[j].BorrowDate) {
			return list[i].BorrowDate.After(list[j].BorrowDate)
		}
		return list[i].ID > list[j].ID
	})
	return list
}
