package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/metrics"
)

// SessionStore keeps sessions in memory. Sessions idle for longer than the
// TTL are dropped the next time a session is created.
type SessionStore interface {
	Create() *Session
	Get(id string) (*Session, error)
	Delete(id string) error
	Len() int
}

type sessionStore struct {
	extractor DocumentExtractor
	analyzer  AnalysisClient
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewSessionStore(extractor DocumentExtractor, analyzer AnalysisClient, ttl time.Duration, logger *zap.Logger) SessionStore {
	return &sessionStore{
		extractor: extractor,
		analyzer:  analyzer,
		ttl:       ttl,
		logger:    logger.Named("sessions"),
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

func (s *sessionStore) Create() *Session {
	session := NewSession(s.extractor, s.analyzer, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictIdleLocked()
	s.sessions[session.ID()] = session
	metrics.SessionsActive.Set(float64(len(s.sessions)))

	s.logger.Debug("session created", zap.String("session_id", session.ID().String()))
	return session
}

func (s *sessionStore) Get(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewNotFoundError("session", id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("session", id)
	}
	return session, nil
}

func (s *sessionStore) Delete(id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NewNotFoundError("session", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[key]; !ok {
		return apperrors.NewNotFoundError("session", id)
	}
	delete(s.sessions, key)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return nil
}

func (s *sessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionStore) evictIdleLocked() {
	if s.ttl <= 0 {
		return
	}

	cutoff := s.now().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.LastActivity().Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug("session expired", zap.String("session_id", id.String()))
		}
	}
}
