package repo

import (
	"Inventaris/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ItemRepository: контракт хранилища предметов инвентаря.
type ItemRepository interface {
	// Insert сохраняет новый предмет и проставляет ему ID.
	Insert(ctx context.Context, it *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	// Update перезаписывает изменяемые поля (name, description, stock, baseline).
	Update(ctx context.Context, it *model.Item) error
	Delete(ctx context.Context, id int64) error
	// ListAll возвращает предметы в порядке добавления.
	ListAll(ctx context.Context) ([]model.Item, error)

	// AdjustStock атомарно прибавляет delta к stock.
	// Если результат ушёл бы в минус: ErrNegativeStock, ничего не меняется.
	AdjustStock(ctx context.Context, id int64, delta int) (*model.Item, error)
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository создаёт gorm-реализацию ItemRepository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Insert(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &it, nil
}

func (r *itemRepo) Update(ctx context.Context, it *model.Item) error {
	tx := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", it.ID).
		Updates(map[string]any{
			"name":        it.Name,
			"description": it.Description,
			"stock":       it.Stock,
			"baseline":    it.Baseline,
			"updated_at":  time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&model.Item{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *itemRepo) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) AdjustStock(ctx context.Context, id int64, delta int) (*model.Item, error) {
	// проверка и изменение одним UPDATE: конкурентные запросы не уведут stock в минус
	tx := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNegativeStock
	}
	return r.GetByID(ctx, id)
}
