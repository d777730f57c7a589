package service

import (
	"Inventaris/internal/lock"
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const maxItemName = 200

// Catalog: каталог инвентаря. Единственный, кто меняет stock.
type Catalog struct {
	items      repo.ItemRepository
	borrowings repo.BorrowingRepository
	locks      lock.Locker
	logger     *zap.SugaredLogger
}

// NewCatalog создаёт каталог.
func NewCatalog(items repo.ItemRepository, borrowings repo.BorrowingRepository, locks lock.Locker, logger *zap.SugaredLogger) *Catalog {
	return &Catalog{items: items, borrowings: borrowings, locks: locks, logger: logger}
}

// Create добавляет предмет. Baseline равен начальному остатку.
func (c *Catalog) Create(ctx context.Context, caller Caller, name, description string, stock int) (*model.Item, error) {
	if err := Authorize(caller, model.RoleAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, validationf("stock must be >= 0, got %d", stock)
	}

	it := &model.Item{Name: name, Description: strings.TrimSpace(description), Stock: stock, Baseline: stock}
	if err := c.items.Insert(ctx, it); err != nil {
		return nil, fromRepo("insert item", err)
	}
	c.logger.Infow("item created", "item_id", it.ID, "stock", it.Stock, "by", caller.UserID)
	return it, nil
}

// Update применяет патч под блокировкой предмета.
// Прямая правка stock пересчитывает baseline как новый stock плюс всё, что на руках.
func (c *Catalog) Update(ctx context.Context, caller Caller, id int64, patch model.ItemPatch) (*model.Item, error) {
	if err := Authorize(caller, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	unlock, err := c.lockItem(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	it, err := c.items.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(fmt.Sprintf("item %d", id), err)
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Stock != nil {
		out, err := c.borrowings.OutstandingQuantity(ctx, id)
		if err != nil {
			return nil, fromRepo("outstanding quantity", err)
		}
		it.Stock = *patch.Stock
		it.Baseline = *patch.Stock + out
	}

	if err := c.items.Update(ctx, it); err != nil {
		return nil, fromRepo(fmt.Sprintf("update item %d", id), err)
	}
	c.logger.Infow("item updated", "item_id", id, "stock", it.Stock, "baseline", it.Baseline, "by", caller.UserID)
	return it, nil
}

// Delete удаляет предмет, если по нему нет открытых выдач.
func (c *Catalog) Delete(ctx context.Context, caller Caller, id int64) error {
	if err := Authorize(caller, model.RoleAdmin); err != nil {
		return err
	}

	unlock, err := c.lockItem(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := c.items.GetByID(ctx, id); err != nil {
		return fromRepo(fmt.Sprintf("item %d", id), err)
	}
	out, err := c.borrowings.OutstandingQuantity(ctx, id)
	if err != nil {
		return fromRepo("outstanding quantity", err)
	}
	if out > 0 {
		return fmt.Errorf("%w: item %d has %d unit(s) on loan", ErrItemOnLoan, id, out)
	}
	if err := c.items.Delete(ctx, id); err != nil {
		return fromRepo(fmt.Sprintf("delete item %d", id), err)
	}
	c.logger.Infow("item deleted", "item_id", id, "by", caller.UserID)
	return nil
}

// Get возвращает предмет по id.
func (c *Catalog) Get(ctx context.Context, id int64) (*model.Item, error) {
	it, err := c.items.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(fmt.Sprintf("item %d", id), err)
	}
	return it, nil
}

// List возвращает все предметы в порядке добавления.
func (c *Catalog) List(ctx context.Context) ([]model.Item, error) {
	items, err := c.items.ListAll(ctx)
	if err != nil {
		return nil, fromRepo("list items", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// AdjustStock атомарно сдвигает остаток на delta. Остаток не уходит ниже нуля.
func (c *Catalog) AdjustStock(ctx context.Context, id int64, delta int) (*model.Item, error) {
	unlock, err := c.lockItem(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return c.adjustStockLocked(ctx, id, delta)
}

// adjustStockLocked: то же, но блокировка уже у вызывающего.
func (c *Catalog) adjustStockLocked(ctx context.Context, id int64, delta int) (*model.Item, error) {
	it, err := c.items.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, fromRepo(fmt.Sprintf("adjust stock of item %d by %d", id, delta), err)
	}
	return it, nil
}

func (c *Catalog) lockItem(ctx context.Context, id int64) (func(), error) {
	unlock, err := c.locks.Lock(ctx, lock.ItemKey(id))
	if err != nil {
		return nil, fmt.Errorf("%w: lock item %d: %w", ErrStorage, id, err)
	}
	return unlock, nil
}

func validateName(name string) error {
	if name == "" {
		return validationf("name is required")
	}
	if utf8.RuneCountInString(name) > maxItemName {
		return validationf("name is longer than %d characters", maxItemName)
	}
	return nil
}

func validatePatch(p *model.ItemPatch) error {
	if p.Empty() {
		return validationf("nothing to update")
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validateName(name); err != nil {
			return err
		}
		p.Name = &name
	}
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		p.Description = &d
	}
	if p.Stock != nil && *p.Stock < 0 {
		return validationf("stock must be >= 0, got %d", *p.Stock)
	}
	return nil
}
