package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"church-app-go/pkg/logger"
)

type fakeOutboxRepo struct {
	actions map[string]*Action
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{actions: make(map[string]*Action)}
}

func (r *fakeOutboxRepo) Create(ctx context.Context, action *Action) error {
	copied := *action
	r.actions[action.ID] = &copied
	return nil
}

func (r *fakeOutboxRepo) Update(ctx context.Context, action *Action) error {
	copied := *action
	r.actions[action.ID] = &copied
	return nil
}

func (r *fakeOutboxRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]Action, error) {
	result := make([]Action, 0)
	for _, action := range r.actions {
		if action.Status == StatusPending && !action.NextRetryAt.After(now) {
			result = append(result, *action)
		}
	}
	return result, nil
}

func (r *fakeOutboxRepo) ListByStatus(ctx context.Context, status string, limit int) ([]Action, error) {
	result := make([]Action, 0)
	for _, action := range r.actions {
		if action.Status == status {
			result = append(result, *action)
		}
	}
	return result, nil
}

func (r *fakeOutboxRepo) single(t *testing.T) *Action {
	t.Helper()
	if len(r.actions) != 1 {
		t.Fatalf("expected one action, got %d", len(r.actions))
	}
	for _, action := range r.actions {
		return action
	}
	return nil
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func TestEnqueueSucceedsInline(t *testing.T) {
	repo := newFakeOutboxRepo()
	service := NewService(repo, testLogger(), 3, time.Second)

	var calls int
	service.Register("ping", func(ctx context.Context, churchID string, payload []byte) error {
		calls++
		if churchID != "church-1" {
			t.Fatalf("unexpected church id %q", churchID)
		}
		return nil
	})

	if err := service.Enqueue(context.Background(), "church-1", "ping", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected inline attempt, got %d calls", calls)
	}
	action := repo.single(t)
	if action.Status != StatusSucceeded {
		t.Fatalf("expected SUCCEEDED, got %s", action.Status)
	}
	if action.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", action.Attempts)
	}
}

func TestWorkerTickSkipsInFlightInlineAttempt(t *testing.T) {
	repo := newFakeOutboxRepo()
	service := NewService(repo, testLogger(), 3, time.Minute)

	var calls int
	service.Register("ping", func(ctx context.Context, churchID string, payload []byte) error {
		calls++
		// A worker tick lands while the inline attempt is still running.
		// The fresh row is scheduled one backoff out, so the tick must
		// not dispatch it a second time.
		service.RunDue(ctx)
		return nil
	})

	if err := service.Enqueue(context.Background(), "church-1", "ping", nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected a single execution, got %d", calls)
	}
	action := repo.single(t)
	if action.Status != StatusSucceeded || action.Attempts != 1 {
		t.Fatalf("expected SUCCEEDED with 1 attempt, got %s attempts=%d", action.Status, action.Attempts)
	}
}

func TestEnqueueFailureSchedulesRetry(t *testing.T) {
	repo := newFakeOutboxRepo()
	service := NewService(repo, testLogger(), 3, time.Minute)
	service.Register("ping", func(ctx context.Context, churchID string, payload []byte) error {
		return errors.New("provider down")
	})

	before := time.Now().UTC()
	if err := service.Enqueue(context.Background(), "church-1", "ping", nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	action := repo.single(t)
	if action.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", action.Status)
	}
	if action.LastError == nil || *action.LastError != "provider down" {
		t.Fatalf("expected last error recorded, got %v", action.LastError)
	}
	// First failure backs off by the base delay.
	if action.NextRetryAt.Before(before.Add(time.Minute)) {
		t.Fatalf("expected retry at least a minute out, got %s", action.NextRetryAt)
	}
}

func TestBackoffDoublesPerAttempt(t *testing.T) {
	repo := newFakeOutboxRepo()
	service := NewService(repo, testLogger(), 10, time.Minute)
	service.Register("ping", func(ctx context.Context, churchID string, payload []byte) error {
		return errors.New("still down")
	})

	if err := service.Enqueue(context.Background(), "church-1", "ping", nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	action := repo.single(t)

	// Force the action due and run a second attempt.
	action.NextRetryAt = time.Now().UTC().Add(-time.Second)
	before := time.Now().UTC()
	service.RunDue(context.Background())

	action = repo.single(t)
	if action.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", action.Attempts)
	}
	if action.NextRetryAt.Before(before.Add(2 * time.Minute)) {
		t.Fatalf("expected doubled backoff, retry at %s", action.NextRetryAt)
	}
}

func TestActionFailsAfterMaxAttempts(t *testing.T) {
	repo := newFakeOutboxRepo()
	service := NewService(repo, testLogger(), 3, time.Minute)
	service.Register("ping", func(ctx context.Context, churchID string, payload []byte) error {
		return errors.New("permanently down")
	})

	if err := service.Enqueue(context.Background(), "church-1", "ping", nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	for i := 0; i < 2; i++ {
		repo.single(t).NextRetryAt = time.Now().UTC().Add(-time.Second)
		service.RunDue(context.Background())
	}

	action := repo.single(t)
	if action.Status != StatusFailed {
		t.Fatalf("expected FAILED after max attempts, got %s", action.Status)
	}
	if action.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", action.Attempts)
	}

	failed, err := service.ListFailed(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("expected the failed action to be listed, got %d", len(failed))
	}
}

func TestRecoveryAfterRetry(t *testing.T) {
	repo := newFakeOutboxRepo()
	service := NewService(repo, testLogger(), 5, time.Minute)

	healthy := false
	service.Register("ping", func(ctx context.Context, churchID string, payload []byte) error {
		if !healthy {
			return errors.New("not yet")
		}
		return nil
	})

	if err := service.Enqueue(context.Background(), "church-1", "ping", nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if repo.single(t).Status != StatusPending {
		t.Fatalf("expected PENDING after failed inline attempt")
	}

	healthy = true
	repo.single(t).NextRetryAt = time.Now().UTC().Add(-time.Second)
	service.RunDue(context.Background())

	action := repo.single(t)
	if action.Status != StatusSucceeded {
		t.Fatalf("expected SUCCEEDED after retry, got %s", action.Status)
	}
	if action.LastError != nil {
		t.Fatalf("expected last error cleared, got %q", *action.LastError)
	}
}

func TestUnknownKindLeftPending(t *testing.T) {
	repo := newFakeOutboxRepo()
	service := NewService(repo, testLogger(), 3, time.Minute)

	if err := service.Enqueue(context.Background(), "church-1", "mystery", nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	action := repo.single(t)
	if action.Status != StatusPending || action.Attempts != 0 {
		t.Fatalf("expected untouched PENDING action, got %s attempts=%d", action.Status, action.Attempts)
	}
}
