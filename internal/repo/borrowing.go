package repo

import (
	"Inventaris/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// BorrowingRepository: контракт хранилища записей о выдаче.
type BorrowingRepository interface {
	// Insert сохраняет новую запись и проставляет ей ID.
	Insert(ctx context.Context, b *model.Borrowing) error
	GetByID(ctx context.Context, id int64) (*model.Borrowing, error)
	// MarkReturned закрывает запись. Срабатывает только для статуса borrowed,
	// иначе ErrNotFound.
	MarkReturned(ctx context.Context, id int64, at time.Time, note string) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]model.Borrowing, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Borrowing, error)
	// OutstandingQuantity: сколько штук предмета сейчас на руках.
	OutstandingQuantity(ctx context.Context, itemID int64) (int, error)
}

type borrowingRepo struct {
	db *gorm.DB
}

// NewBorrowingRepository создаёт gorm-реализацию BorrowingRepository.
func NewBorrowingRepository(db *gorm.DB) BorrowingRepository {
	return &borrowingRepo{db: db}
}

func (r *borrowingRepo) Insert(ctx context.Context, b *model.Borrowing) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *borrowingRepo) GetByID(ctx context.Context, id int64) (*model.Borrowing, error) {
	var b model.Borrowing
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *borrowingRepo) MarkReturned(ctx context.Context, id int64, at time.Time, note string) error {
	tx := r.db.WithContext(ctx).Model(&model.Borrowing{}).
		Where("id = ? AND status = ?", id, model.StatusBorrowed).
		Updates(map[string]any{
			"status":         model.StatusReturned,
			"return_date":    at,
			"condition_note": note,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *borrowingRepo) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&model.Borrowing{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *borrowingRepo) ListAll(ctx context.Context) ([]model.Borrowing, error) {
	var list []model.Borrowing
	err := r.db.WithContext(ctx).Order("borrow_date DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *borrowingRepo) ListByUser(ctx context.Context, userID int64) ([]model.Borrowing, error) {
	var list []model.Borrowing
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("borrow_date DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *borrowingRepo) OutstandingQuantity(ctx context.Context, itemID int64) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Borrowing{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("item_id = ? AND status = ?", itemID, model.StatusBorrowed).
		Scan(&n).Error
	return int(n), err
}
