package service

import (
	"sync"
	"time"

	"github.com/set-night/advoffer/internal/domain"
)

// SessionStore keeps one in-memory session per user. Sessions are not
// durable: a restart loses every conversation in flight.
//
// Lock serializes work on one user without blocking other users. Callers
// mutate a session obtained from Get only while holding that user's lock.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*domain.Session
	touched  map[int64]time.Time
	locks    map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*domain.Session),
		touched:  make(map[int64]time.Time),
		locks:    make(map[int64]*userLock),
	}
}

// Lock acquires the per-user lock and returns its release function.
func (s *SessionStore) Lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			s.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, userID)
			}
			s.mu.Unlock()
		})
	}
}

func (s *SessionStore) Get(userID int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Put(session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session
	s.touched[session.UserID] = session.UpdatedAt
}

func (s *SessionStore) Remove(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	delete(s.touched, userID)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Idle returns the users whose session was last stored before cutoff.
func (s *SessionStore) Idle(cutoff time.Time) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id, at := range s.touched {
		if at.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}
