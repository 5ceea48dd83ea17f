package branch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name     string
	City     string
	Address  *string
	IsActive *bool
}

func (s *Service) Create(ctx context.Context, churchID string, params CreateParams) (*Branch, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	city := strings.TrimSpace(params.City)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", ErrValidation)
	}

	active := true
	if params.IsActive != nil {
		active = *params.IsActive
	}

	record := Branch{
		ID:       uuid.NewString(),
		ChurchID: churchID,
		Name:     name,
		City:     city,
		Address:  trimOptional(params.Address),
		IsActive: active,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Get(ctx context.Context, churchID, branchID string) (*Branch, error) {
	return s.repo.Get(ctx, churchID, branchID)
}

func (s *Service) List(ctx context.Context, churchID string) ([]Branch, error) {
	return s.repo.List(ctx, churchID)
}

type UpdateParams struct {
	Name     *string
	City     *string
	Address  *string
	IsActive *bool
}

func (s *Service) Update(ctx context.Context, churchID, branchID string, params UpdateParams) (*Branch, error) {
	record, err := s.repo.Get(ctx, churchID, branchID)
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
	if params.City != nil {
		city := strings.TrimSpace(*params.City)
		if city == "" {
			return nil, fmt.Errorf("%w: city is required", ErrValidation)
		}
		record.City = city
	}
	if params.Address != nil {
		record.Address = trimOptional(params.Address)
	}
	if params.IsActive != nil {
		record.IsActive = *params.IsActive
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, churchID, branchID string) error {
	return s.repo.Delete(ctx, churchID, branchID)
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
