// Package bolt: реализация хранилища записей поверх встраиваемого файла bbolt.
// Каждая сущность живёт в своём бакете, значения в JSON, ключи это big-endian ID,
// поэтому обход курсором идёт в порядке добавления.
package bolt

import (
	"Inventaris/internal/repo"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketItems      = []byte("items")
	bucketBorrowings = []byte("borrowings")
	bucketUsers      = []byte("users")
)

// Store владеет файлом БД; репозитории берутся из него.
type Store struct {
	db *bbolt.DB
}

// Open открывает (или создаёт) файл БД и заводит бакеты.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketItems, bucketBorrowings, bucketUsers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close закрывает файл БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Items возвращает репозиторий предметов.
func (s *Store) Items() repo.ItemRepository { return &itemRepo{db: s.db} }

// Borrowings возвращает репозиторий выдач.
func (s *Store) Borrowings() repo.BorrowingRepository { return &borrowingRepo{db: s.db} }

// Users возвращает репозиторий пользователей.
func (s *Store) Users() repo.UserRepository { return &userRepo{db: s.db} }

func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// nextID выдаёт следующий ID из последовательности бакета.
func nextID(b *bbolt.Bucket) (int64, error) {
	seq, err := b.NextSequence()
	if err != nil {
		return 0, err
	}
	return int64(seq), nil
}

func get[T any](b *bbolt.Bucket, id int64) (*T, error) {
	raw := b.Get(itob(id))
	if raw == nil {
		return nil, repo.ErrNotFound
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode record %d: %w", id, err)
	}
	return &v, nil
}

func put[T any](b *bbolt.Bucket, id int64, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(itob(id), raw)
}

func list[T any](b *bbolt.Bucket) ([]T, error) {
	var out []T
	err := b.ForEach(func(_, raw []byte) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}
