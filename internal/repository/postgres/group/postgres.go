package group

import (
	"context"
	"errors"
	"strings"

	groupdomain "church-app-go/internal/domain/group"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(groupdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, group *groupdomain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) Get(ctx context.Context, churchID, groupID string) (*groupdomain.Group, error) {
	var record groupdomain.Group
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, groupID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) List(ctx context.Context, churchID string) ([]groupdomain.ListEntry, error) {
	var entries []groupdomain.ListEntry
	err := r.db.WithContext(ctx).
		Table("groups").
		Select("groups.*, branches.name as branch_name, " +
			"(select count(*) from group_members where group_members.group_id = groups.id) as member_count").
		Joins("left join branches on branches.id = groups.branch_id").
		Where("groups.church_id = ?", churchID).
		Order("groups.name asc").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) Update(ctx context.Context, group *groupdomain.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, link *groupdomain.GroupMember) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, churchID, groupID, memberID string) error {
	return r.db.WithContext(ctx).
		Where("church_id = ? AND group_id = ? AND member_id = ?", churchID, groupID, memberID).
		Delete(&groupdomain.GroupMember{}).Error
}

func (r *PostgresRepository) IsMember(ctx context.Context, churchID, groupID, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&groupdomain.GroupMember{}).
		Where("church_id = ? AND group_id = ? AND member_id = ?", churchID, groupID, memberID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, churchID, groupID string) ([]groupdomain.MemberEntry, error) {
	var entries []groupdomain.MemberEntry
	err := r.db.WithContext(ctx).
		Table("group_members").
		Select("group_members.id as group_member_id, group_members.member_id, group_members.joined_at, "+
			"members.first_name, members.last_name, members.email, members.phone, members.date_of_birth, "+
			"members.status, members.branch_id, branches.name as branch_name").
		Joins("join members on members.id = group_members.member_id").
		Joins("left join branches on branches.id = members.branch_id").
		Where("group_members.church_id = ? AND group_members.group_id = ?", churchID, groupID).
		Order("members.last_name asc, members.first_name asc").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListCandidates excludes current group members with an anti-join so the set
// difference holds no matter which filters the caller combines.
func (r *PostgresRepository) ListCandidates(ctx context.Context, churchID, groupID string, filter groupdomain.CandidateFilter) ([]groupdomain.Candidate, error) {
	query := r.db.WithContext(ctx).
		Table("members").
		Select("members.id as member_id, members.first_name, members.last_name, members.email, "+
			"members.phone, members.date_of_birth, members.status, members.branch_id, branches.name as branch_name").
		Joins("left join branches on branches.id = members.branch_id").
		Where("members.church_id = ?", churchID).
		Where("members.id NOT IN (select member_id from group_members where group_members.group_id = ?)", groupID)

	if filter.BranchID != "" {
		query = query.Where("members.branch_id = ?", filter.BranchID)
	}
	if filter.Status != "" {
		query = query.Where("members.status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(members.first_name) LIKE ? OR LOWER(members.last_name) LIKE ? OR LOWER(members.email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var candidates []groupdomain.Candidate
	if err := query.Order("members.last_name asc, members.first_name asc").Scan(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
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

func (r *PostgresRepository) CreateAnnouncement(ctx context.Context, announcement *groupdomain.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *PostgresRepository) ListAnnouncements(ctx context.Context, churchID, groupID string, limit int) ([]groupdomain.Announcement, error) {
	var records []groupdomain.Announcement
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND group_id = ?", churchID, groupID).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
