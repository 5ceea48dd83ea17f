package pastor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"church-app-go/internal/domain/outbox"
	"church-app-go/internal/identity"
	"church-app-go/internal/session"
	"church-app-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	// Outbox action kinds for identity-provider side effects.
	ActionIdentityCreate = "pastor_identity_create"
	ActionIdentitySync   = "pastor_identity_sync"
)

// IdentityCreatePayload provisions a brand-new pastor login: identity with a
// random unusable password, invite email, app_users upsert.
type IdentityCreatePayload struct {
	MemberID   string `json:"member_id"`
	Email      string `json:"email"`
	ChurchSlug string `json:"church_slug"`
}

// IdentitySyncPayload converges an existing pastor login with the profile:
// app_users upsert plus provider email/metadata update.
type IdentitySyncPayload struct {
	UserID     string `json:"user_id"`
	MemberID   string `json:"member_id"`
	Email      string `json:"email"`
	ChurchSlug string `json:"church_slug"`
}

type Service struct {
	repo     Repository
	provider identity.Provider
	outbox   *outbox.Service
	log      logger.Logger
}

func NewService(repo Repository, provider identity.Provider, box *outbox.Service, log logger.Logger) *Service {
	s := &Service{repo: repo, provider: provider, outbox: box, log: log}
	box.Register(ActionIdentityCreate, s.executeIdentityCreate)
	box.Register(ActionIdentitySync, s.executeIdentitySync)
	return s
}

type CreateParams struct {
	MemberID       string
	Email          string
	Title          string
	OrdinationDate *time.Time
	Bio            *string
	BranchIDs      []string
}

func (p *CreateParams) normalize() error {
	p.MemberID = strings.TrimSpace(p.MemberID)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Title = strings.TrimSpace(p.Title)

	if p.MemberID == "" {
		return fmt.Errorf("%w: memberId is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: invalid login email", ErrValidation)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	p.BranchIDs = dedupe(p.BranchIDs)
	return nil
}

// Create runs the provisioning workflow: conflict checks first, then the
// database writes in one transaction, then the identity side effect through
// the outbox so a provider failure is retried instead of lost.
func (s *Service) Create(ctx context.Context, churchID string, params CreateParams) (*PastorProfile, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}

	member, err := s.repo.GetMember(ctx, churchID, params.MemberID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetProfileByMember(ctx, churchID, params.MemberID); err == nil {
		return nil, ErrAlreadyPastor
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Email conflict is checked before any identity call on purpose: a
	// rejected request must not leave a stray login behind.
	if _, err := s.repo.GetAppUserByEmail(ctx, churchID, params.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var profile PastorProfile
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if member.Email == nil || *member.Email != params.Email {
			if err := tx.UpdateMemberEmail(ctx, churchID, params.MemberID, params.Email); err != nil {
				return err
			}
		}

		profile = PastorProfile{
			ID:             uuid.NewString(),
			ChurchID:       churchID,
			MemberID:       params.MemberID,
			Title:          params.Title,
			OrdinationDate: params.OrdinationDate,
			Bio:            params.Bio,
		}
		if err := tx.CreateProfile(ctx, &profile); err != nil {
			return err
		}

		return s.applyBranchSet(ctx, tx, &profile, params.BranchIDs)
	})
	if err != nil {
		return nil, err
	}

	slug, err := s.repo.GetChurchSlug(ctx, churchID)
	if err != nil {
		return nil, err
	}
	if err := s.outbox.Enqueue(ctx, churchID, ActionIdentityCreate, IdentityCreatePayload{
		MemberID:   params.MemberID,
		Email:      params.Email,
		ChurchSlug: slug,
	}); err != nil {
		s.log.InternalError("pastor.create: enqueue identity action failed", err, "church_id", churchID, "member_id", params.MemberID)
	}

	return &profile, nil
}

func (s *Service) Roster(ctx context.Context, churchID string, filter Filter) ([]RosterEntry, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListRoster(ctx, churchID, filter)
}

// Detail is the single-pastor view: profile, member fields and assigned
// branches.
type DetailView struct {
	PastorProfile
	Member   MemberInfo
	Branches []BranchRef
}

func (s *Service) Get(ctx context.Context, churchID, profileID string) (*DetailView, error) {
	profile, err := s.repo.GetProfile(ctx, churchID, profileID)
	if err != nil {
		return nil, err
	}
	member, err := s.repo.GetMember(ctx, churchID, profile.MemberID)
	if err != nil {
		return nil, err
	}
	branches, err := s.repo.ListAssignedBranches(ctx, churchID, profileID)
	if err != nil {
		return nil, err
	}
	return &DetailView{PastorProfile: *profile, Member: *member, Branches: branches}, nil
}

type UpdateParams struct {
	MemberID       string
	Email          string
	Title          string
	OrdinationDate *time.Time
	Bio            *string
	BranchIDs      []string
}

// Update edits the profile and re-assigns branches by diffing the submitted
// set inside the same transaction, then converges the login identity through
// the outbox (sync when a pastor login exists, create otherwise).
func (s *Service) Update(ctx context.Context, churchID, profileID string, params UpdateParams) (*PastorProfile, error) {
	create := CreateParams{MemberID: params.MemberID, Email: params.Email, Title: params.Title}
	create.BranchIDs = params.BranchIDs
	if err := create.normalize(); err != nil {
		return nil, err
	}
	params.MemberID, params.Email, params.Title, params.BranchIDs = create.MemberID, create.Email, create.Title, create.BranchIDs

	profile, err := s.repo.GetProfile(ctx, churchID, profileID)
	if err != nil {
		return nil, err
	}
	if profile.MemberID != params.MemberID {
		return nil, ErrMemberImmutable
	}

	member, err := s.repo.GetMember(ctx, churchID, profile.MemberID)
	if err != nil {
		return nil, err
	}

	// Same conflict rule as provisioning: the login email must not belong
	// to another app user in this church. The pastor's own login keeps it.
	if appUser, err := s.repo.GetAppUserByEmail(ctx, churchID, params.Email); err == nil {
		if appUser.MemberID != profile.MemberID {
			return nil, ErrEmailInUse
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if member.Email == nil || *member.Email != params.Email {
			if err := tx.UpdateMemberEmail(ctx, churchID, profile.MemberID, params.Email); err != nil {
				return err
			}
		}

		profile.Title = params.Title
		profile.OrdinationDate = params.OrdinationDate
		profile.Bio = params.Bio
		if err := tx.UpdateProfile(ctx, profile); err != nil {
			return err
		}

		current, err := tx.ListBranchIDs(ctx, churchID, profileID)
		if err != nil {
			return err
		}
		return s.diffBranchSet(ctx, tx, profile, current, params.BranchIDs)
	})
	if err != nil {
		return nil, err
	}

	slug, err := s.repo.GetChurchSlug(ctx, churchID)
	if err != nil {
		return nil, err
	}

	appUser, err := s.repo.GetPastorAppUserByMember(ctx, churchID, profile.MemberID)
	switch {
	case err == nil:
		err = s.outbox.Enqueue(ctx, churchID, ActionIdentitySync, IdentitySyncPayload{
			UserID:     appUser.ID,
			MemberID:   profile.MemberID,
			Email:      params.Email,
			ChurchSlug: slug,
		})
	case errors.Is(err, ErrNotFound):
		err = s.outbox.Enqueue(ctx, churchID, ActionIdentityCreate, IdentityCreatePayload{
			MemberID:   profile.MemberID,
			Email:      params.Email,
			ChurchSlug: slug,
		})
	}
	if err != nil {
		s.log.InternalError("pastor.update: enqueue identity action failed", err, "church_id", churchID, "member_id", profile.MemberID)
	}

	return profile, nil
}

func (s *Service) Delete(ctx context.Context, churchID, profileID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		profile, err := tx.GetProfile(ctx, churchID, profileID)
		if err != nil {
			return err
		}
		current, err := tx.ListBranchIDs(ctx, churchID, profileID)
		if err != nil {
			return err
		}
		for _, branchID := range current {
			if err := tx.RemoveBranch(ctx, churchID, profileID, branchID); err != nil {
				return err
			}
		}
		return tx.DeleteProfile(ctx, churchID, profile.ID)
	})
}

// AssignedBranchIDs resolves the branches a pastor session may see. No
// profile means no visibility, not an error.
func (s *Service) AssignedBranchIDs(ctx context.Context, churchID, memberID string) ([]string, error) {
	profile, err := s.repo.GetProfileByMember(ctx, churchID, memberID)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListBranchIDs(ctx, churchID, profile.ID)
}

func (s *Service) applyBranchSet(ctx context.Context, tx Repository, profile *PastorProfile, branchIDs []string) error {
	for _, branchID := range branchIDs {
		exists, err := tx.BranchExists(ctx, profile.ChurchID, branchID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBranchNotFound
		}
		assignment := PastorBranch{
			ID:              uuid.NewString(),
			ChurchID:        profile.ChurchID,
			PastorProfileID: profile.ID,
			BranchID:        branchID,
		}
		if err := tx.AddBranch(ctx, &assignment); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) diffBranchSet(ctx context.Context, tx Repository, profile *PastorProfile, current, submitted []string) error {
	currentSet := make(map[string]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	submittedSet := make(map[string]struct{}, len(submitted))
	for _, id := range submitted {
		submittedSet[id] = struct{}{}
	}

	for _, id := range current {
		if _, keep := submittedSet[id]; !keep {
			if err := tx.RemoveBranch(ctx, profile.ChurchID, profile.ID, id); err != nil {
				return err
			}
		}
	}

	var toAdd []string
	for _, id := range submitted {
		if _, have := currentSet[id]; !have {
			toAdd = append(toAdd, id)
		}
	}
	return s.applyBranchSet(ctx, tx, profile, toAdd)
}

func (s *Service) executeIdentityCreate(ctx context.Context, churchID string, raw []byte) error {
	var payload IdentityCreatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	metadata := session.Metadata(session.RolePastor, churchID, payload.ChurchSlug, payload.MemberID)

	user, err := s.provider.CreateUser(ctx, identity.CreateParams{
		Email: payload.Email,
		// Random throwaway password; the invite email drives the real
		// credential setup.
		Password:     uuid.NewString(),
		EmailConfirm: false,
		Metadata:     metadata,
	})
	if err != nil {
		return err
	}

	if err := s.provider.InviteByEmail(ctx, payload.Email, metadata); err != nil {
		// The identity exists; a missing invite email is recoverable by a
		// manual resend and must not fail the action.
		s.log.BusinessError("pastor: invite email failed", err, "email", payload.Email, "church_id", churchID)
	}

	return s.repo.UpsertPastorAppUser(ctx, AppUserLink{
		ID:       user.ID,
		Email:    payload.Email,
		ChurchID: churchID,
		MemberID: payload.MemberID,
	})
}

func (s *Service) executeIdentitySync(ctx context.Context, churchID string, raw []byte) error {
	var payload IdentitySyncPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	if err := s.repo.UpsertPastorAppUser(ctx, AppUserLink{
		ID:       payload.UserID,
		Email:    payload.Email,
		ChurchID: churchID,
		MemberID: payload.MemberID,
	}); err != nil {
		return err
	}

	return s.provider.UpdateUser(ctx, payload.UserID, identity.UpdateParams{
		Email:    payload.Email,
		Metadata: session.Metadata(session.RolePastor, churchID, payload.ChurchSlug, payload.MemberID),
	})
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
