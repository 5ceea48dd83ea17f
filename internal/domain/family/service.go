package family

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	FamilyName         *string
	WeddingAnniversary *time.Time
	Address            *string
	HeadMemberID       *string
}

// Create inserts the family and, when a head member is given, exactly one
// HEAD link flagged as primary contact. The head must be a member of the
// same church.
func (s *Service) Create(ctx context.Context, churchID string, params CreateParams) (*Family, error) {
	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		record := Family{
			ID:                 uuid.NewString(),
			ChurchID:           churchID,
			FamilyName:         trimOptional(params.FamilyName),
			WeddingAnniversary: params.WeddingAnniversary,
			Address:            trimOptional(params.Address),
		}
		if err := tx.Create(ctx, &record); err != nil {
			return err
		}

		if params.HeadMemberID != nil && *params.HeadMemberID != "" {
			exists, err := tx.MemberExists(ctx, churchID, *params.HeadMemberID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrMemberNotFound
			}
			link := FamilyMember{
				ID:               uuid.NewString(),
				ChurchID:         churchID,
				FamilyID:         record.ID,
				MemberID:         *params.HeadMemberID,
				Relationship:     RelationshipHead,
				IsPrimaryContact: true,
			}
			if err := tx.AddMember(ctx, &link); err != nil {
				return err
			}
		}

		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Roster composes the family list view. Several HEAD rows may exist; the
// oldest one is displayed. Read-consistent in practice only: the two queries
// are not isolated against concurrent writes.
func (s *Service) Roster(ctx context.Context, churchID string) ([]RosterEntry, error) {
	families, err := s.repo.List(ctx, churchID)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.ListAllLinks(ctx, churchID)
	if err != nil {
		return nil, err
	}

	byFamily := make(map[string][]MemberLink, len(families))
	for _, link := range links {
		byFamily[link.FamilyID] = append(byFamily[link.FamilyID], link)
	}

	roster := make([]RosterEntry, 0, len(families))
	for _, record := range families {
		entry := RosterEntry{Family: record}
		members := byFamily[record.ID]
		entry.MemberCount = len(members)

		sort.SliceStable(members, func(i, j int) bool {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		})
		for _, link := range members {
			if link.Relationship == RelationshipChild {
				entry.ChildCount++
			}
			if link.Relationship == RelationshipHead && entry.HeadName == nil {
				name := strings.TrimSpace(link.FirstName + " " + link.LastName)
				entry.HeadName = &name
			}
		}
		roster = append(roster, entry)
	}
	return roster, nil
}

func (s *Service) Get(ctx context.Context, churchID, familyID string) (*Detail, error) {
	record, err := s.repo.Get(ctx, churchID, familyID)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.ListLinks(ctx, churchID, familyID)
	if err != nil {
		return nil, err
	}
	return &Detail{Family: *record, Members: links}, nil
}

type UpdateParams struct {
	FamilyName         *string
	WeddingAnniversary *time.Time
	Address            *string
}

func (s *Service) Update(ctx context.Context, churchID, familyID string, params UpdateParams) (*Family, error) {
	record, err := s.repo.Get(ctx, churchID, familyID)
	if err != nil {
		return nil, err
	}

	if params.FamilyName != nil {
		record.FamilyName = trimOptional(params.FamilyName)
	}
	if params.WeddingAnniversary != nil {
		record.WeddingAnniversary = params.WeddingAnniversary
	}
	if params.Address != nil {
		record.Address = trimOptional(params.Address)
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

type AddMemberParams struct {
	MemberID         string
	Relationship     string
	IsPrimaryContact bool
}

func (s *Service) AddMember(ctx context.Context, churchID, familyID string, params AddMemberParams) (*FamilyMember, error) {
	if params.MemberID == "" {
		return nil, fmt.Errorf("%w: memberId is required", ErrValidation)
	}
	if !ValidRelationship(params.Relationship) {
		return nil, fmt.Errorf("%w: relationship must be HEAD, SPOUSE, CHILD or OTHER", ErrValidation)
	}

	var result FamilyMember
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.Get(ctx, churchID, familyID); err != nil {
			return err
		}
		exists, err := tx.MemberExists(ctx, churchID, params.MemberID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrMemberNotFound
		}

		link := FamilyMember{
			ID:               uuid.NewString(),
			ChurchID:         churchID,
			FamilyID:         familyID,
			MemberID:         params.MemberID,
			Relationship:     params.Relationship,
			IsPrimaryContact: params.IsPrimaryContact,
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
