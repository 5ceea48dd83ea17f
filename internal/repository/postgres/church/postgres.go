package church

import (
	"context"
	"errors"

	churchdomain "church-app-go/internal/domain/church"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(churchdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateChurch(ctx context.Context, church *churchdomain.Church) error {
	return r.db.WithContext(ctx).Create(church).Error
}

func (r *PostgresRepository) GetChurch(ctx context.Context, churchID string) (*churchdomain.Church, error) {
	var record churchdomain.Church
	if err := r.db.WithContext(ctx).Where("id = ?", churchID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, churchdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetChurchBySlug(ctx context.Context, slug string) (*churchdomain.Church, error) {
	var record churchdomain.Church
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, churchdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListChurches(ctx context.Context) ([]churchdomain.Church, error) {
	var records []churchdomain.Church
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) UpdateChurch(ctx context.Context, church *churchdomain.Church) error {
	return r.db.WithContext(ctx).Save(church).Error
}

func (r *PostgresRepository) DeleteChurch(ctx context.Context, churchID string) error {
	return r.db.WithContext(ctx).Delete(&churchdomain.Church{}, "id = ?", churchID).Error
}

func (r *PostgresRepository) IsSlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&churchdomain.Church{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateAppUser(ctx context.Context, user *churchdomain.AppUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) GetAppUserByEmail(ctx context.Context, churchID, email string) (*churchdomain.AppUser, error) {
	var record churchdomain.AppUser
	if err := r.db.WithContext(ctx).Where("church_id = ? AND email = ?", churchID, email).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, churchdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
