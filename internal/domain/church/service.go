package church

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"church-app-go/internal/identity"
	"church-app-go/internal/session"
	"church-app-go/pkg/logger"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type Service struct {
	repo     Repository
	provider identity.Provider
	log      logger.Logger
}

func NewService(repo Repository, provider identity.Provider, log logger.Logger) *Service {
	return &Service{repo: repo, provider: provider, log: log}
}

type RegisterParams struct {
	Name                string
	Slug                string
	PrimaryContactName  string
	PrimaryContactEmail string
	Password            string
}

func (p *RegisterParams) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))
	p.PrimaryContactName = strings.TrimSpace(p.PrimaryContactName)
	p.PrimaryContactEmail = strings.ToLower(strings.TrimSpace(p.PrimaryContactEmail))

	if len(p.Name) < 2 {
		return fmt.Errorf("%w: name too short", ErrValidation)
	}
	if !slugPattern.MatchString(p.Slug) {
		return fmt.Errorf("%w: slug must be lowercase letters, digits and hyphens", ErrValidation)
	}
	if len(p.PrimaryContactName) < 2 {
		return fmt.Errorf("%w: contact name too short", ErrValidation)
	}
	if _, err := mail.ParseAddress(p.PrimaryContactEmail); err != nil {
		return fmt.Errorf("%w: invalid contact email", ErrValidation)
	}
	if len(p.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	return nil
}

// Register self-registers a tenant. The church always starts PENDING on the
// FREE plan no matter what the caller sends; only a super admin can change
// either afterwards. The admin identity is created email-confirmed so the
// contact can sign in immediately (approval gates listing, not login).
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Church, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}

	taken, err := s.repo.IsSlugTaken(ctx, params.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	record := Church{
		ID:                  uuid.NewString(),
		Name:                params.Name,
		Slug:                params.Slug,
		PrimaryContactName:  params.PrimaryContactName,
		PrimaryContactEmail: params.PrimaryContactEmail,
		Status:              StatusPending,
		Plan:                PlanFree,
	}
	if err := s.repo.CreateChurch(ctx, &record); err != nil {
		return nil, err
	}

	user, err := s.provider.CreateUser(ctx, identity.CreateParams{
		Email:        params.PrimaryContactEmail,
		Password:     params.Password,
		EmailConfirm: true,
		Metadata:     session.Metadata(session.RoleAdmin, record.ID, record.Slug, ""),
	})
	if err != nil {
		// The church row stays; the super admin can re-provision the login.
		return nil, fmt.Errorf("provision admin identity: %w", err)
	}

	appUser := AppUser{
		ID:       user.ID,
		Email:    params.PrimaryContactEmail,
		Role:     string(session.RoleAdmin),
		ChurchID: &record.ID,
	}
	if err := s.repo.CreateAppUser(ctx, &appUser); err != nil {
		// The identity alone is enough to use the dashboard; keep going.
		s.log.InternalError("church.register: app_user insert failed", err, "church_id", record.ID, "email", appUser.Email)
	}

	return &record, nil
}

type CreateParams struct {
	RegisterParams
	Status string
	Plan   string
}

// Create is the super-admin variant of registration: status and plan may be
// set directly, and the admin login is provisioned only when a password is
// supplied.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Church, error) {
	withLogin := params.Password != ""
	if !withLogin {
		// normalize checks password length; stub it for login-less creation.
		params.Password = "--------"
	}
	if err := params.normalize(); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	plan := params.Plan
	if plan == "" {
		plan = PlanFree
	}
	if !ValidPlan(plan) {
		return nil, ErrInvalidPlan
	}

	taken, err := s.repo.IsSlugTaken(ctx, params.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	record := Church{
		ID:                  uuid.NewString(),
		Name:                params.Name,
		Slug:                params.Slug,
		PrimaryContactName:  params.PrimaryContactName,
		PrimaryContactEmail: params.PrimaryContactEmail,
		Status:              status,
		Plan:                plan,
	}
	if err := s.repo.CreateChurch(ctx, &record); err != nil {
		return nil, err
	}

	if withLogin {
		user, err := s.provider.CreateUser(ctx, identity.CreateParams{
			Email:        params.PrimaryContactEmail,
			Password:     params.Password,
			EmailConfirm: true,
			Metadata:     session.Metadata(session.RoleAdmin, record.ID, record.Slug, ""),
		})
		if err != nil {
			s.log.InternalError("church.create: admin identity failed", err, "church_id", record.ID)
			return &record, nil
		}
		appUser := AppUser{
			ID:       user.ID,
			Email:    params.PrimaryContactEmail,
			Role:     string(session.RoleAdmin),
			ChurchID: &record.ID,
		}
		if err := s.repo.CreateAppUser(ctx, &appUser); err != nil {
			s.log.InternalError("church.create: app_user insert failed", err, "church_id", record.ID)
		}
	}

	return &record, nil
}

func (s *Service) List(ctx context.Context) ([]Church, error) {
	return s.repo.ListChurches(ctx)
}

// GetByRef resolves a church by id first, then by slug.
func (s *Service) GetByRef(ctx context.Context, ref string) (*Church, error) {
	record, err := s.repo.GetChurch(ctx, ref)
	if err == nil {
		return record, nil
	}
	return s.repo.GetChurchBySlug(ctx, ref)
}

func (s *Service) GetByID(ctx context.Context, churchID string) (*Church, error) {
	return s.repo.GetChurch(ctx, churchID)
}

type UpdateParams struct {
	Status              *string
	Plan                *string
	Name                *string
	PrimaryContactName  *string
	PrimaryContactEmail *string
}

// Update applies the super-admin PATCH. The slug is immutable and therefore
// not part of UpdateParams.
func (s *Service) Update(ctx context.Context, ref string, params UpdateParams) (*Church, error) {
	record, err := s.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	if params.Status != nil {
		if !ValidStatus(*params.Status) {
			return nil, ErrInvalidStatus
		}
		record.Status = *params.Status
	}
	if params.Plan != nil {
		if !ValidPlan(*params.Plan) {
			return nil, ErrInvalidPlan
		}
		record.Plan = *params.Plan
	}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if len(name) < 2 {
			return nil, fmt.Errorf("%w: name too short", ErrValidation)
		}
		record.Name = name
	}
	if params.PrimaryContactName != nil {
		record.PrimaryContactName = strings.TrimSpace(*params.PrimaryContactName)
	}
	if params.PrimaryContactEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*params.PrimaryContactEmail))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: invalid contact email", ErrValidation)
		}
		record.PrimaryContactEmail = email
	}

	if err := s.repo.UpdateChurch(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateOwn is the tenant admin's self-service update. Status, plan and slug
// are off limits here.
func (s *Service) UpdateOwn(ctx context.Context, churchID string, params UpdateParams) (*Church, error) {
	params.Status = nil
	params.Plan = nil
	return s.Update(ctx, churchID, params)
}

func (s *Service) Delete(ctx context.Context, ref string) error {
	record, err := s.GetByRef(ctx, ref)
	if err != nil {
		return err
	}
	return s.repo.DeleteChurch(ctx, record.ID)
}
