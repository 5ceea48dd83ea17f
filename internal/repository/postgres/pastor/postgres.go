package pastor

import (
	"context"
	"errors"
	"strings"

	pastordomain "church-app-go/internal/domain/pastor"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(pastordomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *pastordomain.PastorProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *PostgresRepository) GetProfile(ctx context.Context, churchID, profileID string) (*pastordomain.PastorProfile, error) {
	var record pastordomain.PastorProfile
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, profileID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pastordomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetProfileByMember(ctx context.Context, churchID, memberID string) (*pastordomain.PastorProfile, error) {
	var record pastordomain.PastorProfile
	if err := r.db.WithContext(ctx).Where("church_id = ? AND member_id = ?", churchID, memberID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pastordomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListRoster(ctx context.Context, churchID string, filter pastordomain.Filter) ([]pastordomain.RosterEntry, error) {
	query := r.db.WithContext(ctx).
		Table("pastor_profiles").
		Select("pastor_profiles.*, members.first_name, members.last_name, members.email").
		Joins("join members on members.id = pastor_profiles.member_id").
		Where("pastor_profiles.church_id = ?", churchID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(members.first_name) LIKE ? OR LOWER(members.last_name) LIKE ? OR LOWER(members.email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.BranchID != "" {
		query = query.Where(
			"pastor_profiles.id IN (select pastor_profile_id from pastor_branches where branch_id = ?)",
			filter.BranchID,
		)
	}

	var entries []pastordomain.RosterEntry
	if err := query.Order("members.last_name asc, members.first_name asc").Scan(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	// Attach branch assignments in one pass instead of a query per pastor.
	profileIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		profileIDs = append(profileIDs, entry.ID)
	}
	var rows []struct {
		PastorProfileID string
		BranchID        string
		Name            string
	}
	err := r.db.WithContext(ctx).
		Table("pastor_branches").
		Select("pastor_branches.pastor_profile_id, pastor_branches.branch_id, branches.name").
		Joins("join branches on branches.id = pastor_branches.branch_id").
		Where("pastor_branches.church_id = ? AND pastor_branches.pastor_profile_id IN ?", churchID, profileIDs).
		Order("branches.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	byProfile := make(map[string][]pastordomain.BranchRef, len(entries))
	for _, row := range rows {
		byProfile[row.PastorProfileID] = append(byProfile[row.PastorProfileID], pastordomain.BranchRef{
			ID:   row.BranchID,
			Name: row.Name,
		})
	}
	for i := range entries {
		entries[i].Branches = byProfile[entries[i].ID]
	}
	return entries, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, profile *pastordomain.PastorProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *PostgresRepository) DeleteProfile(ctx context.Context, churchID, profileID string) error {
	return r.db.WithContext(ctx).
		Where("church_id = ? AND id = ?", churchID, profileID).
		Delete(&pastordomain.PastorProfile{}).Error
}

func (r *PostgresRepository) ListBranchIDs(ctx context.Context, churchID, profileID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&pastordomain.PastorBranch{}).
		Where("church_id = ? AND pastor_profile_id = ?", churchID, profileID).
		Pluck("branch_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) ListAssignedBranches(ctx context.Context, churchID, profileID string) ([]pastordomain.BranchRef, error) {
	var refs []pastordomain.BranchRef
	err := r.db.WithContext(ctx).
		Table("pastor_branches").
		Select("branches.id, branches.name").
		Joins("join branches on branches.id = pastor_branches.branch_id").
		Where("pastor_branches.church_id = ? AND pastor_branches.pastor_profile_id = ?", churchID, profileID).
		Order("branches.name asc").
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *PostgresRepository) AddBranch(ctx context.Context, assignment *pastordomain.PastorBranch) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *PostgresRepository) RemoveBranch(ctx context.Context, churchID, profileID, branchID string) error {
	return r.db.WithContext(ctx).
		Where("church_id = ? AND pastor_profile_id = ? AND branch_id = ?", churchID, profileID, branchID).
		Delete(&pastordomain.PastorBranch{}).Error
}

func (r *PostgresRepository) BranchExists(ctx context.Context, churchID, branchID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("branches").
		Where("church_id = ? AND id = ?", churchID, branchID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, churchID, memberID string) (*pastordomain.MemberInfo, error) {
	var info pastordomain.MemberInfo
	err := r.db.WithContext(ctx).
		Table("members").
		Select("id, first_name, last_name, email").
		Where("church_id = ? AND id = ?", churchID, memberID).
		Take(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pastordomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &info, nil
}

func (r *PostgresRepository) UpdateMemberEmail(ctx context.Context, churchID, memberID, email string) error {
	return r.db.WithContext(ctx).
		Table("members").
		Where("church_id = ? AND id = ?", churchID, memberID).
		Update("email", email).Error
}

func (r *PostgresRepository) GetAppUserByEmail(ctx context.Context, churchID, email string) (*pastordomain.AppUserLink, error) {
	var link pastordomain.AppUserLink
	err := r.db.WithContext(ctx).
		Table("app_users").
		Select("id, email, church_id, member_id").
		Where("church_id = ? AND email = ?", churchID, email).
		Take(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pastordomain.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *PostgresRepository) GetPastorAppUserByMember(ctx context.Context, churchID, memberID string) (*pastordomain.AppUserLink, error) {
	var link pastordomain.AppUserLink
	err := r.db.WithContext(ctx).
		Table("app_users").
		Select("id, email, church_id, member_id").
		Where("church_id = ? AND member_id = ? AND role = ?", churchID, memberID, "PASTOR").
		Take(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pastordomain.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *PostgresRepository) UpsertPastorAppUser(ctx context.Context, link pastordomain.AppUserLink) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("app_users").
		Where("id = ?", link.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return r.db.WithContext(ctx).
			Table("app_users").
			Where("id = ?", link.ID).
			Updates(map[string]interface{}{
				"email":     link.Email,
				"church_id": link.ChurchID,
				"member_id": link.MemberID,
			}).Error
	}
	return r.db.WithContext(ctx).
		Table("app_users").
		Create(map[string]interface{}{
			"id":        link.ID,
			"email":     link.Email,
			"role":      "PASTOR",
			"church_id": link.ChurchID,
			"member_id": link.MemberID,
		}).Error
}

func (r *PostgresRepository) GetChurchSlug(ctx context.Context, churchID string) (string, error) {
	var row struct{ Slug string }
	err := r.db.WithContext(ctx).
		Table("churches").
		Select("slug").
		Where("id = ?", churchID).
		Take(&row).Error
	if err != nil {
		return "", err
	}
	return row.Slug, nil
}
