package app

import "sync"

// keyedLocks мьютекс на каждого пользователя. Записи удаляются, когда
// последний держатель отпускает ключ.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[int64]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[int64]*keyedLock)}
}

// Lock захватывает ключ и возвращает функцию освобождения.
func (l *keyedLocks) Lock(key int64) func() {
	l.mu.Lock()
	k, ok := l.locks[key]
	if !ok {
		k = &keyedLock{}
		l.locks[key] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()

	return func() {
		k.mu.Unlock()

		l.mu.Lock()
		k.refs--
		if k.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *keyedLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
