package outbox

import (
	"context"
	"time"

	outboxdomain "church-app-go/internal/domain/outbox"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, action *outboxdomain.Action) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *PostgresRepository) Update(ctx context.Context, action *outboxdomain.Action) error {
	return r.db.WithContext(ctx).Save(action).Error
}

func (r *PostgresRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]outboxdomain.Action, error) {
	var actions []outboxdomain.Action
	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at <= ?", outboxdomain.StatusPending, now).
		Order("created_at asc").
		Limit(limit).
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status string, limit int) ([]outboxdomain.Action, error) {
	var actions []outboxdomain.Action
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at desc").
		Limit(limit).
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}
