// Package ratelimit реализует ограничитель запросов с фиксированным окном на ключ.
//
// Ограничитель best-effort: состояние живет только в памяти процесса и не
// разделяется между экземплярами. Хранилище и часы внедряются снаружи, чтобы
// тесты могли подставить детерминированное время и чистую таблицу.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// DefaultSweepInterval минимальный интервал между очистками истекших записей.
const DefaultSweepInterval = 60 * time.Second

// Clock источник текущего времени.
type Clock interface {
	Now() time.Time
}

// ClockFunc адаптер функции к Clock.
type ClockFunc func() time.Time

// Now возвращает текущее время.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock возвращает часы реального времени.
func SystemClock() Clock { return ClockFunc(time.Now) }

// Entry состояние окна для одного ключа.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Store хранилище записей ограничителя.
type Store interface {
	Get(key string) (Entry, bool)
	Set(key string, entry Entry)
	// Sweep удаляет записи с истекшим окном и возвращает их количество.
	Sweep(now time.Time) int
}

// Decision результат проверки.
type Decision struct {
	Allowed bool
	// RetryAfter через сколько секунд стоит повторить запрос, только при отказе.
	RetryAfter int
}

// Limiter ограничитель с фиксированным окном.
type Limiter struct {
	mu            sync.Mutex
	store         Store
	clock         Clock
	sweepInterval time.Duration
	lastSweep     time.Time
}

// New создает Limiter. Время последней очистки отсчитывается от момента создания.
func New(store Store, clock Clock) *Limiter {
	return &Limiter{
		store:         store,
		clock:         clock,
		sweepInterval: DefaultSweepInterval,
		lastSweep:     clock.Now(),
	}
}

// Check учитывает запрос по ключу key и решает, пропустить ли его.
//
// Первый запрос или запрос после окончания окна сбрасывает счетчик в 1 и
// открывает новое окно длиной window. Иначе счетчик растет, и при превышении
// maxRequests запрос отклоняется.
func (l *Limiter) Check(key string, maxRequests int, window time.Duration) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.sweep(now)

	entry, ok := l.store.Get(key)
	if !ok || now.After(entry.ResetAt) {
		l.store.Set(key, Entry{Count: 1, ResetAt: now.Add(window)})
		return Decision{Allowed: true}
	}

	entry.Count++
	l.store.Set(key, entry)
	if entry.Count > maxRequests {
		return Decision{
			Allowed:    false,
			RetryAfter: int(math.Ceil(entry.ResetAt.Sub(now).Seconds())),
		}
	}
	return Decision{Allowed: true}
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.sweepInterval {
		return
	}
	l.lastSweep = now
	l.store.Sweep(now)
}

// MemoryStore хранилище в памяти процесса.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryStore создает пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get возвращает запись по ключу.
func (s *MemoryStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok
}

// Set сохраняет запись.
func (s *MemoryStore) Set(key string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
}

// Sweep удаляет записи, окно которых закончилось до now.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, e := range s.entries {
		if now.After(e.ResetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len количество записей в хранилище.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
