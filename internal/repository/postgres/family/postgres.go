package family

import (
	"context"
	"errors"

	familydomain "church-app-go/internal/domain/family"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) Get(ctx context.Context, churchID, familyID string) (*familydomain.Family, error) {
	var record familydomain.Family
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, familyID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) List(ctx context.Context, churchID string) ([]familydomain.Family, error) {
	var records []familydomain.Family
	if err := r.db.WithContext(ctx).
		Where("church_id = ?", churchID).
		Order("created_at desc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) Update(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Save(family).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, link *familydomain.FamilyMember) error {
	return r.db.WithContext(ctx).Create(link).Error
}

const linkSelect = "family_members.id, family_members.family_id, family_members.member_id, " +
	"family_members.relationship, family_members.is_primary_contact, family_members.created_at, " +
	"members.first_name, members.last_name, members.email, members.phone"

func (r *PostgresRepository) ListLinks(ctx context.Context, churchID, familyID string) ([]familydomain.MemberLink, error) {
	var links []familydomain.MemberLink
	err := r.db.WithContext(ctx).
		Table("family_members").
		Select(linkSelect).
		Joins("join members on members.id = family_members.member_id").
		Where("family_members.church_id = ? AND family_members.family_id = ?", churchID, familyID).
		Order("family_members.created_at asc").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *PostgresRepository) ListAllLinks(ctx context.Context, churchID string) ([]familydomain.MemberLink, error) {
	var links []familydomain.MemberLink
	err := r.db.WithContext(ctx).
		Table("family_members").
		Select(linkSelect).
		Joins("join members on members.id = family_members.member_id").
		Where("family_members.church_id = ?", churchID).
		Order("family_members.created_at asc").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *PostgresRepository) MemberExists(ctx context.Context, churchID, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("members").
		Where("church_id = ? AND id = ?", churchID, memberID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
