package bolt

import (
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

type borrowingRepo struct {
	db *bbolt.DB
}

func (r *borrowingRepo) Insert(_ context.Context, bw *model.Borrowing) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBorrowings)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		bw.ID = id
		return put(b, id, bw)
	})
}

func (r *borrowingRepo) GetByID(_ context.Context, id int64) (*model.Borrowing, error) {
	var bw *model.Borrowing
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		bw, err = get[model.Borrowing](tx.Bucket(bucketBorrowings), id)
		return err
	})
	return bw, err
}

func (r *borrowingRepo) MarkReturned(_ context.Context, id int64, at time.Time, note string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBorrowings)
		cur, err := get[model.Borrowing](b, id)
		if err != nil {
			return err
		}
		if cur.Status != model.StatusBorrowed {
			return repo.ErrNotFound
		}
		cur.Status = model.StatusReturned
		cur.ReturnDate = &at
		cur.ConditionNote = &note
		return put(b, id, cur)
	})
}

func (r *borrowingRepo) Delete(_ context.Context, id int64) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBorrowings)
		if b.Get(itob(id)) == nil {
			return repo.ErrNotFound
		}
		return b.Delete(itob(id))
	})
}

func (r *borrowingRepo) ListAll(_ context.Context) ([]model.Borrowing, error) {
	return r.filter(func(*model.Borrowing) bool { return true })
}

func (r *borrowingRepo) ListByUser(_ context.Context, userID int64) ([]model.Borrowing, error) {
	return r.filter(func(b *model.Borrowing) bool { return b.OwnedBy(userID) })
}

func (r *borrowingRepo) OutstandingQuantity(_ context.Context, itemID int64) (int, error) {
	open, err := r.filter(func(b *model.Borrowing) bool {
		return b.ItemID == itemID && b.Status == model.StatusBorrowed
	})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, b := range open {
		n += b.Quantity
	}
	return n, nil
}

// filter отдаёт подходящие записи, свежие сверху.
func (r *borrowingRepo) filter(keep func(*model.Borrowing) bool) ([]model.Borrowing, error) {
	var all []model.Borrowing
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		all, err = list[model.Borrowing](tx.Bucket(bucketBorrowings))
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Borrowing, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BorrowDate.Equal(out[j].BorrowDate) {
			return out[i].BorrowDate.After(out[j].BorrowDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
