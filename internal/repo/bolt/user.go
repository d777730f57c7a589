package bolt

import (
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

// userRecord хранит пароль отдельно, потому что у model.User хеш пароля скрыт от JSON.
type userRecord struct {
	ID        int64      `json:"id"`
	Login     string     `json:"login"`
	Password  string     `json:"password"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

func toRecord(u *model.User) *userRecord {
	return &userRecord{ID: u.ID, Login: u.Login, Password: u.Password, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (rec *userRecord) user() *model.User {
	return &model.User{ID: rec.ID, Login: rec.Login, Password: rec.Password, Name: rec.Name, Role: rec.Role, CreatedAt: rec.CreatedAt}
}

type userRepo struct {
	db *bbolt.DB
}

func (r *userRepo) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		all, err := list[userRecord](b)
		if err != nil {
			return err
		}
		for _, rec := range all {
			if rec.Login == u.Login {
				return repo.ErrDuplicate
			}
		}
		id, err := nextID(b)
		if err != nil {
			return err
		}
		u.ID = id
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
		return put(b, id, toRecord(u))
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	all, err := r.all()
	if err != nil {
		return nil, err
	}
	for _, rec := range all {
		if rec.Login == login {
			return rec.user(), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	var rec *userRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		rec, err = get[userRecord](tx.Bucket(bucketUsers), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec.user(), nil
}

func (r *userRepo) ListAll(_ context.Context) ([]model.User, error) {
	all, err := r.all()
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(all))
	for i := range all {
		users = append(users, *all[i].user())
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		if b.Get(itob(id)) == nil {
			return repo.ErrNotFound
		}
		return b.Delete(itob(id))
	})
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	var n int64
	err := r.db.View(func(tx *bbolt.Tx) error {
		n = int64(tx.Bucket(bucketUsers).Stats().KeyN)
		return nil
	})
	return n, err
}

func (r *userRepo) all() ([]userRecord, error) {
	var all []userRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		all, err = list[userRecord](tx.Bucket(bucketUsers))
		return err
	})
	return all, err
}
