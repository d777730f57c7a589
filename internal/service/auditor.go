package service

import (
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Violation: предмет, у которого сломан инвариант остатка.
type Violation struct {
	ItemID      int64  `json:"item_id"`
	ItemName    string `json:"item_name"`
	Stock       int    `json:"stock"`
	Outstanding int    `json:"outstanding"`
	Baseline    int    `json:"baseline"`
	Reason      string `json:"reason"`
}

// Auditor сверяет остатки с открытыми выдачами: stock >= 0 и stock + на руках == baseline.
type Auditor struct {
	catalog *Catalog
	logger  *zap.SugaredLogger
}

// NewAuditor создаёт аудитор поверх каталога.
func NewAuditor(catalog *Catalog, logger *zap.SugaredLogger) *Auditor {
	return &Auditor{catalog: catalog, logger: logger}
}

// Report: проверка по запросу админа.
func (a *Auditor) Report(ctx context.Context, caller Caller) ([]Violation, error) {
	if err := Authorize(caller, model.RoleAdmin); err != nil {
		return nil, err
	}
	return a.Check(ctx)
}

// Check проверяет все предметы. Каждый предмет читается под его блокировкой,
// чтобы не поймать выдачу посередине.
func (a *Auditor) Check(ctx context.Context) ([]Violation, error) {
	items, err := a.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	violations := []Violation{}
	for _, it := range items {
		v, err := a.checkItem(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		if v != nil {
			a.logger.Errorw("stock invariant violated",
				"item_id", v.ItemID, "stock", v.Stock, "outstanding", v.Outstanding, "baseline", v.Baseline, "reason", v.Reason)
			violations = append(violations, *v)
		}
	}
	a.logger.Infow("stock audit finished", "items", len(items), "violations", len(violations))
	return violations, nil
}

func (a *Auditor) checkItem(ctx context.Context, id int64) (*Violation, error) {
	unlock, err := a.catalog.lockItem(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	it, err := a.catalog.items.GetByID(ctx, id)
	if err != nil {
		// удалён между списком и проверкой
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, fromRepo(fmt.Sprintf("item %d", id), err)
	}
	out, err := a.catalog.borrowings.OutstandingQuantity(ctx, id)
	if err != nil {
		return nil, fromRepo("outstanding quantity", err)
	}

	v := &Violation{ItemID: it.ID, ItemName: it.Name, Stock: it.Stock, Outstanding: out, Baseline: it.Baseline}
	switch {
	case it.Stock < 0:
		v.Reason = "negative stock"
	case it.Stock+out != it.Baseline:
		v.Reason = fmt.Sprintf("stock + outstanding = %d, baseline = %d", it.Stock+out, it.Baseline)
	default:
		return nil, nil
	}
	return v, nil
}
