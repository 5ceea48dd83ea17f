package member

import (
	"context"
	"errors"
	"strings"

	memberdomain "church-app-go/internal/domain/member"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, member *memberdomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) Get(ctx context.Context, churchID, memberID string) (*memberdomain.Member, error) {
	var record memberdomain.Member
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, memberID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) List(ctx context.Context, churchID string, filter memberdomain.Filter) ([]memberdomain.Member, error) {
	query := r.db.WithContext(ctx).Where("church_id = ?", churchID)
	if filter.BranchID != "" {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []memberdomain.Member
	if err := query.Order("last_name asc, first_name asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) ListByBranches(ctx context.Context, churchID string, branchIDs []string) ([]memberdomain.Member, error) {
	if len(branchIDs) == 0 {
		return []memberdomain.Member{}, nil
	}
	var records []memberdomain.Member
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND branch_id IN ?", churchID, branchIDs).
		Order("last_name asc, first_name asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) Search(ctx context.Context, churchID, query string, limit int) ([]memberdomain.SearchResult, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var results []memberdomain.SearchResult
	err := r.db.WithContext(ctx).
		Table("members").
		Select("members.*, branches.name as branch_name").
		Joins("left join branches on branches.id = members.branch_id").
		Where("members.church_id = ?", churchID).
		Where(
			"LOWER(members.first_name) LIKE ? OR LOWER(members.last_name) LIKE ? OR LOWER(members.email) LIKE ?",
			pattern, pattern, pattern,
		).
		Order("members.last_name asc, members.first_name asc").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *PostgresRepository) Update(ctx context.Context, member *memberdomain.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, churchID, memberID string) error {
	return r.db.WithContext(ctx).
		Where("church_id = ? AND id = ?", churchID, memberID).
		Delete(&memberdomain.Member{}).Error
}
