// Package lock сериализует операции над одним ключом (у нас над одним предметом).
package lock

import (
	"context"
	"strconv"
	"sync"
)

// Locker захватывает эксклюзивную блокировку ключа.
// Возвращённый unlock нужно вызвать ровно один раз.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ItemKey: ключ блокировки предмета.
func ItemKey(itemID int64) string {
	return "item:" + strconv.FormatInt(itemID, 10)
}

// Keyed: блокировки в памяти процесса, по одной на ключ.
// Запись удаляется, когда её никто не держит и не ждёт.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{} // буфер 1: занят, если внутри есть значение
	refs int
}

// NewKeyed создаёт пустой набор блокировок.
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

func (k *Keyed) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.release(key, e)
		})
	}, nil
}

func (k *Keyed) release(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// size: число живых записей (для тестов).
func (k *Keyed) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
