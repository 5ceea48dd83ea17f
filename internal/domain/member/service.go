package member

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const searchLimit = 20

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	FirstName   string
	LastName    string
	BranchID    *string
	Gender      *string
	Email       *string
	Phone       *string
	Status      string
	JoinedDate  *time.Time
	DateOfBirth *time.Time
	BaptismDate *time.Time
}

func (s *Service) Create(ctx context.Context, churchID string, params CreateParams) (*Member, error) {
	first := strings.TrimSpace(params.FirstName)
	last := strings.TrimSpace(params.LastName)
	if first == "" || last == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidation)
	}

	status := params.Status
	if status == "" {
		status = StatusActive
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: status must be ACTIVE or INACTIVE", ErrValidation)
	}

	email, err := normalizeEmail(params.Email)
	if err != nil {
		return nil, err
	}

	joined := time.Now().UTC().Truncate(24 * time.Hour)
	if params.JoinedDate != nil {
		joined = *params.JoinedDate
	}

	record := Member{
		ID:          uuid.NewString(),
		ChurchID:    churchID,
		BranchID:    params.BranchID,
		FirstName:   first,
		LastName:    last,
		Gender:      trimOptional(params.Gender),
		Email:       email,
		Phone:       trimOptional(params.Phone),
		Status:      status,
		JoinedDate:  joined,
		DateOfBirth: params.DateOfBirth,
		BaptismDate: params.BaptismDate,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Get(ctx context.Context, churchID, memberID string) (*Member, error) {
	return s.repo.Get(ctx, churchID, memberID)
}

func (s *Service) List(ctx context.Context, churchID string, filter Filter) ([]Member, error) {
	return s.repo.List(ctx, churchID, filter)
}

// ListByBranches returns members of the given branches; it backs the pastor
// portal where visibility is limited to assigned branches.
func (s *Service) ListByBranches(ctx context.Context, churchID string, branchIDs []string) ([]Member, error) {
	if len(branchIDs) == 0 {
		return []Member{}, nil
	}
	return s.repo.ListByBranches(ctx, churchID, branchIDs)
}

// Search backs the member pickers. An empty query returns an empty result
// rather than the whole tenant.
func (s *Service) Search(ctx context.Context, churchID, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	return s.repo.Search(ctx, churchID, query, searchLimit)
}

type UpdateParams struct {
	FirstName   *string
	LastName    *string
	BranchID    *string
	ClearBranch bool
	Gender      *string
	Email       *string
	Phone       *string
	Status      *string
	JoinedDate  *time.Time
	DateOfBirth *time.Time
	BaptismDate *time.Time
}

func (s *Service) Update(ctx context.Context, churchID, memberID string, params UpdateParams) (*Member, error) {
	record, err := s.repo.Get(ctx, churchID, memberID)
	if err != nil {
		return nil, err
	}

	if params.FirstName != nil {
		first := strings.TrimSpace(*params.FirstName)
		if first == "" {
			return nil, fmt.Errorf("%w: first name is required", ErrValidation)
		}
		record.FirstName = first
	}
	if params.LastName != nil {
		last := strings.TrimSpace(*params.LastName)
		if last == "" {
			return nil, fmt.Errorf("%w: last name is required", ErrValidation)
		}
		record.LastName = last
	}
	if params.ClearBranch {
		record.BranchID = nil
	} else if params.BranchID != nil {
		record.BranchID = params.BranchID
	}
	if params.Gender != nil {
		record.Gender = trimOptional(params.Gender)
	}
	if params.Email != nil {
		email, err := normalizeEmail(params.Email)
		if err != nil {
			return nil, err
		}
		record.Email = email
	}
	if params.Phone != nil {
		record.Phone = trimOptional(params.Phone)
	}
	if params.Status != nil {
		if !ValidStatus(*params.Status) {
			return nil, fmt.Errorf("%w: status must be ACTIVE or INACTIVE", ErrValidation)
		}
		record.Status = *params.Status
	}
	if params.JoinedDate != nil {
		record.JoinedDate = *params.JoinedDate
	}
	if params.DateOfBirth != nil {
		record.DateOfBirth = params.DateOfBirth
	}
	if params.BaptismDate != nil {
		record.BaptismDate = params.BaptismDate
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, churchID, memberID string) error {
	return s.repo.Delete(ctx, churchID, memberID)
}

func normalizeEmail(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	email := strings.ToLower(strings.TrimSpace(*value))
	if email == "" {
		return nil, nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return &email, nil
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
