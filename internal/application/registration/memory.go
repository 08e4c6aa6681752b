package registration

import (
	"context"
	"sync"
	"time"
)

// janitorInterval — период фоновой очистки истёкших сессий.
const janitorInterval = time.Minute

// MemoryStore — потокобезопасное хранилище сессий в памяти процесса.
// Используется, когда Redis не сконфигурирован; состояние теряется при
// перезапуске, что для диалога регистрации допустимо.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]memoryEntry
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore создаёт хранилище и запускает фоновую очистку.
// Неположительный ttl заменяется на SessionTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	s := &MemoryStore{
		sessions: make(map[int64]memoryEntry),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Get возвращает сессию чата. Истёкшая сессия равносильна отсутствующей.
func (s *MemoryStore) Get(_ context.Context, chatID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[chatID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.sessions, chatID)
		return nil, ErrNoSession
	}
	session := entry.session
	return &session, nil
}

// Put сохраняет копию сессии и продлевает её срок жизни.
func (s *MemoryStore) Put(_ context.Context, chatID int64, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[chatID] = memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete удаляет сессию чата.
func (s *MemoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

// Close останавливает фоновую очистку.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for chatID, entry := range s.sessions {
				if now.After(entry.expiresAt) {
					delete(s.sessions, chatID)
				}
			}
			s.mu.Unlock()
		}
	}
}
