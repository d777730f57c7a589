package bolt

import (
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"time"

	"go.etcd.io/bbolt"
)

type itemRepo struct {
	db *bbolt.DB
}

func (r *itemRepo) Insert(_ context.Context, it *model.Item) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketItems)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		it.ID = id
		it.CreatedAt, it.UpdatedAt = now, now
		return put(b, id, it)
	})
}

func (r *itemRepo) GetByID(_ context.Context, id int64) (*model.Item, error) {
	var it *model.Item
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		it, err = get[model.Item](tx.Bucket(bucketItems), id)
		return err
	})
	return it, err
}

func (r *itemRepo) Update(_ context.Context, it *model.Item) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketItems)
		cur, err := get[model.Item](b, it.ID)
		if err != nil {
			return err
		}
		cur.Name = it.Name
		cur.Description = it.Description
		cur.Stock = it.Stock
		cur.Baseline = it.Baseline
		cur.UpdatedAt = time.Now().UTC()
		return put(b, cur.ID, cur)
	})
}

func (r *itemRepo) Delete(_ context.Context, id int64) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketItems)
		if b.Get(itob(id)) == nil {
			return repo.ErrNotFound
		}
		return b.Delete(itob(id))
	})
}

func (r *itemRepo) ListAll(_ context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		items, err = list[model.Item](tx.Bucket(bucketItems))
		return err
	})
	return items, err
}

func (r *itemRepo) AdjustStock(_ context.Context, id int64, delta int) (*model.Item, error) {
	var it *model.Item
	// одна транзакция записи: bbolt пускает только одного писателя за раз
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketItems)
		cur, err := get[model.Item](b, id)
		if err != nil {
			return err
		}
		if cur.Stock+delta < 0 {
			return repo.ErrNegativeStock
		}
		cur.Stock += delta
		cur.UpdatedAt = time.Now().UTC()
		it = cur
		return put(b, id, cur)
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}
