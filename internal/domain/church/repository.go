package church

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateChurch(ctx context.Context, church *Church) error
	GetChurch(ctx context.Context, churchID string) (*Church, error)
	GetChurchBySlug(ctx context.Context, slug string) (*Church, error)
	ListChurches(ctx context.Context) ([]Church, error)
	UpdateChurch(ctx context.Context, church *Church) error
	DeleteChurch(ctx context.Context, churchID string) error
	IsSlugTaken(ctx context.Context, slug string) (bool, error)

	CreateAppUser(ctx context.Context, user *AppUser) error
	GetAppUserByEmail(ctx context.Context, churchID, email string) (*AppUser, error)
}
