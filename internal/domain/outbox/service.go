package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"church-app-go/pkg/logger"
	"github.com/google/uuid"
)

const dueBatchSize = 50

// Handler executes one action kind. A nil error marks the action SUCCEEDED;
// any error schedules a retry until the attempt budget runs out.
type Handler func(ctx context.Context, churchID string, payload []byte) error

type Service struct {
	repo        Repository
	log         logger.Logger
	maxAttempts int
	retryBase   time.Duration

	mu       sync.Mutex
	handlers map[string]Handler
}

func NewService(repo Repository, log logger.Logger, maxAttempts int, retryBase time.Duration) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if retryBase <= 0 {
		retryBase = 30 * time.Second
	}
	return &Service{
		repo:        repo,
		log:         log,
		maxAttempts: maxAttempts,
		retryBase:   retryBase,
		handlers:    make(map[string]Handler),
	}
}

func (s *Service) Register(kind string, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[kind] = handler
}

// Enqueue records the action and attempts it once inline. The record is
// written before the attempt so a crash mid-execution is retried rather
// than lost. Its retry time starts one backoff out, so a worker tick never
// picks up a row whose inline attempt is still in flight.
func (s *Service) Enqueue(ctx context.Context, churchID, kind string, payload interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("outbox: encode payload: %w", err)
	}

	action := Action{
		ID:          uuid.NewString(),
		ChurchID:    churchID,
		Kind:        kind,
		Payload:     string(encoded),
		Status:      StatusPending,
		NextRetryAt: time.Now().UTC().Add(s.retryBase),
	}
	if err := s.repo.Create(ctx, &action); err != nil {
		return err
	}

	s.dispatch(ctx, &action)
	return nil
}

// RunDue is the worker tick: execute every pending action whose retry time
// has elapsed.
func (s *Service) RunDue(ctx context.Context) {
	actions, err := s.repo.ListDue(ctx, time.Now().UTC(), dueBatchSize)
	if err != nil {
		s.log.InternalError("outbox: list due failed", err)
		return
	}
	for i := range actions {
		s.dispatch(ctx, &actions[i])
	}
}

func (s *Service) ListFailed(ctx context.Context) ([]Action, error) {
	return s.repo.ListByStatus(ctx, StatusFailed, dueBatchSize)
}

func (s *Service) dispatch(ctx context.Context, action *Action) {
	s.mu.Lock()
	handler, ok := s.handlers[action.Kind]
	s.mu.Unlock()

	if !ok {
		s.log.Error("outbox: no handler registered", "kind", action.Kind, "action_id", action.ID)
		return
	}

	err := handler(ctx, action.ChurchID, []byte(action.Payload))
	action.Attempts++

	if err == nil {
		action.Status = StatusSucceeded
		action.LastError = nil
		if updateErr := s.repo.Update(ctx, action); updateErr != nil {
			s.log.InternalError("outbox: mark succeeded failed", updateErr, "action_id", action.ID)
		}
		return
	}

	message := err.Error()
	action.LastError = &message
	if action.Attempts >= s.maxAttempts {
		action.Status = StatusFailed
		s.log.Error("outbox: action exhausted retries", "kind", action.Kind, "action_id", action.ID, "attempts", action.Attempts, "err", err)
	} else {
		// Exponential backoff: base * 2^(attempts-1).
		delay := s.retryBase << (action.Attempts - 1)
		action.NextRetryAt = time.Now().UTC().Add(delay)
		s.log.BusinessError("outbox: action failed, will retry", err, "kind", action.Kind, "action_id", action.ID, "attempts", action.Attempts)
	}
	if updateErr := s.repo.Update(ctx, action); updateErr != nil {
		s.log.InternalError("outbox: record attempt failed", updateErr, "action_id", action.ID)
	}
}
