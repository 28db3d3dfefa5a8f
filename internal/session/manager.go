package session

import "sync"

// Manager выдает блокировку на пользователя: все циклы чтение-изменение-запись
// заявки одного пользователя сериализуются, события разных пользователей идут
// параллельно. Мьютексы создаются лениво и не освобождаются — количество
// пользователей одного бота для этого достаточно мало.
// Manager hands out a per-user lock: every read-modify-write of one user's
// submission is serialized while different users proceed in parallel. Mutexes
// are created lazily and never reclaimed; a single bot's user count is small
// enough for that.
type Manager struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewManager() *Manager {
	return &Manager{locks: make(map[int64]*sync.Mutex)}
}

func (m *Manager) userLock(userID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	return l
}

// Lock захватывает блокировку пользователя.
// Lock acquires the user's lock.
func (m *Manager) Lock(userID int64) {
	m.userLock(userID).Lock()
}

// Unlock освобождает блокировку пользователя.
// Unlock releases the user's lock.
func (m *Manager) Unlock(userID int64) {
	m.userLock(userID).Unlock()
}
