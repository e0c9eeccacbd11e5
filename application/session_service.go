package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/patrickmn/go-cache"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/contracts"
	"ehsaudit/domain/events"
	"ehsaudit/logging"
)

// SessionService manages review sessions for the HTTP and CLI layers.
type SessionService interface {
	CreateSession(ctx context.Context, actx audit.AuditContext, source contracts.AnalysisSource) (*ReviewSession, error)
	GetSession(id string) (*ReviewSession, error)
	ListSessions() []*ReviewSession
	CloseSession(id string) error
	Count() int
}

// SessionServiceImpl keeps sessions in memory. A session expires after ttl
// without being accessed; registers are not persisted.
type SessionServiceImpl struct {
	sessions *cache.Cache
	deps     sessionDeps
	logger   *logging.Logger
}

// NewSessionService creates a session service. A nil clock uses the real clock;
// nil metrics or publisher discard what they would receive.
func NewSessionService(
	ttl time.Duration,
	cleanupInterval time.Duration,
	clock clockwork.Clock,
	publisher events.RegisterEventPublisher,
	metrics ReviewMetrics,
) *SessionServiceImpl {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	if publisher == nil {
		publisher = noOpPublisher{}
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	logger := logging.Default().WithComponent("session_service")
	s := &SessionServiceImpl{
		sessions: cache.New(ttl, cleanupInterval),
		deps: sessionDeps{
			clock:     clock,
			publisher: publisher,
			metrics:   metrics,
			logger:    logging.Default().WithComponent("review_session"),
		},
		logger: logger,
	}

	s.sessions.OnEvicted(func(id string, _ interface{}) {
		s.logger.Info("Review session closed", "session_id", id)
		s.deps.metrics.SetActiveSessions(s.sessions.ItemCount())
	})
	return s
}

// CreateSession loads an analysis result and seeds a new register from it.
func (s *SessionServiceImpl) CreateSession(ctx context.Context, actx audit.AuditContext, source contracts.AnalysisSource) (*ReviewSession, error) {
	if err := actx.Validate(); err != nil {
		return nil, err
	}

	result, err := source.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load analysis", "error", err)
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	session, err := newReviewSession(uuid.NewString(), actx, result, s.deps)
	if err != nil {
		return nil, err
	}

	s.sessions.SetDefault(session.ID(), session)
	s.deps.metrics.SetActiveSessions(s.sessions.ItemCount())
	s.logger.Info("Review session created", "session_id", session.ID(), "findings", session.Len())
	return session, nil
}

// GetSession returns a live session and extends its lifetime.
func (s *SessionServiceImpl) GetSession(id string) (*ReviewSession, error) {
	value, found := s.sessions.Get(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", contracts.ErrSessionNotFound, id)
	}
	session := value.(*ReviewSession)

	// Replace resets the expiration; it fails harmlessly if the entry just expired.
	_ = s.sessions.Replace(id, session, cache.DefaultExpiration)
	return session, nil
}

// ListSessions returns live sessions, newest first.
func (s *SessionServiceImpl) ListSessions() []*ReviewSession {
	items := s.sessions.Items()
	sessions := make([]*ReviewSession, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, item.Object.(*ReviewSession))
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt().Equal(sessions[j].CreatedAt()) {
			return sessions[i].ID() < sessions[j].ID()
		}
		return sessions[i].CreatedAt().After(sessions[j].CreatedAt())
	})
	return sessions
}

// CloseSession discards a session and its register.
func (s *SessionServiceImpl) CloseSession(id string) error {
	if _, found := s.sessions.Get(id); !found {
		return fmt.Errorf("%w: %s", contracts.ErrSessionNotFound, id)
	}
	s.sessions.Delete(id)
	return nil
}

// Count returns the number of sessions held, including expired ones not yet cleaned up.
func (s *SessionServiceImpl) Count() int {
	return s.sessions.ItemCount()
}

type noOpPublisher struct{}

func (noOpPublisher) PublishRegisterSeeded(events.RegisterSeededEvent)         {}
func (noOpPublisher) PublishFindingUpdated(events.FindingUpdatedEvent)         {}
func (noOpPublisher) PublishStatusChanged(events.StatusChangedEvent)           {}
func (noOpPublisher) PublishTransitionRejected(events.TransitionRejectedEvent) {}
