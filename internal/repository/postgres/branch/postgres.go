package branch

import (
	"context"
	"errors"

	branchdomain "church-app-go/internal/domain/branch"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, branch *branchdomain.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

func (r *PostgresRepository) Get(ctx context.Context, churchID, branchID string) (*branchdomain.Branch, error) {
	var record branchdomain.Branch
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, branchID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, branchdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) List(ctx context.Context, churchID string) ([]branchdomain.Branch, error) {
	var records []branchdomain.Branch
	if err := r.db.WithContext(ctx).
		Where("church_id = ?", churchID).
		Order("name asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) Update(ctx context.Context, branch *branchdomain.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, churchID, branchID string) error {
	return r.db.WithContext(ctx).
		Where("church_id = ? AND id = ?", churchID, branchID).
		Delete(&branchdomain.Branch{}).Error
}
