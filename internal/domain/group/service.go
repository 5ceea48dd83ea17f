package group

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	candidateLimit    = 50
	announcementLimit = 20
	maxTitleLen       = 120
	maxBodyLen        = 2000
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	Type        *string
	BranchID    *string
	Description *string
}

func (s *Service) Create(ctx context.Context, churchID string, params CreateParams) (*Group, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	record := Group{
		ID:          uuid.NewString(),
		ChurchID:    churchID,
		BranchID:    trimOptional(params.BranchID),
		Name:        name,
		Type:        trimOptional(params.Type),
		Description: trimOptional(params.Description),
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) List(ctx context.Context, churchID string) ([]ListEntry, error) {
	return s.repo.List(ctx, churchID)
}

func (s *Service) Get(ctx context.Context, churchID, groupID string) (*Group, error) {
	return s.repo.Get(ctx, churchID, groupID)
}

type UpdateParams struct {
	Name        *string
	Type        *string
	BranchID    *string
	ClearBranch bool
	Description *string
}

func (s *Service) Update(ctx context.Context, churchID, groupID string, params UpdateParams) (*Group, error) {
	record, err := s.repo.Get(ctx, churchID, groupID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		record.Name = name
	}
	if params.Type != nil {
		record.Type = trimOptional(params.Type)
	}
	if params.ClearBranch {
		record.BranchID = nil
	} else if params.BranchID != nil {
		record.BranchID = trimOptional(params.BranchID)
	}
	if params.Description != nil {
		record.Description = trimOptional(params.Description)
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Members(ctx context.Context, churchID, groupID string) ([]MemberEntry, error) {
	if _, err := s.repo.Get(ctx, churchID, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, churchID, groupID)
}

// Candidates lists tenant members not yet in the group. The exclusion is an
// anti-join in storage, so the set-difference holds for every filter
// combination.
func (s *Service) Candidates(ctx context.Context, churchID, groupID string, filter CandidateFilter) ([]Candidate, error) {
	if _, err := s.repo.Get(ctx, churchID, groupID); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 || filter.Limit > candidateLimit {
		filter.Limit = candidateLimit
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListCandidates(ctx, churchID, groupID, filter)
}

func (s *Service) AddMember(ctx context.Context, churchID, groupID, memberID string) (*GroupMember, error) {
	if memberID == "" {
		return nil, fmt.Errorf("%w: memberId is required", ErrValidation)
	}

	var result GroupMember
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.Get(ctx, churchID, groupID); err != nil {
			return err
		}
		exists, err := tx.MemberExists(ctx, churchID, memberID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrMemberNotFound
		}
		already, err := tx.IsMember(ctx, churchID, groupID, memberID)
		if err != nil {
			return err
		}
		if already {
			return ErrAlreadyInGroup
		}

		link := GroupMember{
			ID:       uuid.NewString(),
			ChurchID: churchID,
			GroupID:  groupID,
			MemberID: memberID,
		}
		if err := tx.AddMember(ctx, &link); err != nil {
			return err
		}
		result = link
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) RemoveMember(ctx context.Context, churchID, groupID, memberID string) error {
	if memberID == "" {
		return fmt.Errorf("%w: memberId is required", ErrValidation)
	}
	if _, err := s.repo.Get(ctx, churchID, groupID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, churchID, groupID, memberID)
}

func (s *Service) Announcements(ctx context.Context, churchID, groupID string) ([]Announcement, error) {
	if _, err := s.repo.Get(ctx, churchID, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListAnnouncements(ctx, churchID, groupID, announcementLimit)
}

func (s *Service) CreateAnnouncement(ctx context.Context, churchID, groupID, createdBy, title, body string) (*Announcement, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title must be 1-%d characters", ErrValidation, maxTitleLen)
	}
	if body == "" || len(body) > maxBodyLen {
		return nil, fmt.Errorf("%w: body must be 1-%d characters", ErrValidation, maxBodyLen)
	}

	if _, err := s.repo.Get(ctx, churchID, groupID); err != nil {
		return nil, err
	}

	record := Announcement{
		ID:        uuid.NewString(),
		ChurchID:  churchID,
		GroupID:   groupID,
		Title:     title,
		Body:      body,
		CreatedBy: createdBy,
	}
	if err := s.repo.CreateAnnouncement(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
