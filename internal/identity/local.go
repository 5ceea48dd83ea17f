package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider is an in-memory provider for development and tests. Tokens
// are "local:<user id>". Passwords are bcrypt-hashed so VerifyPassword
// behaves like a real provider would.
type LocalProvider struct {
	mu      sync.Mutex
	byID    map[string]*localUser
	byEmail map[string]string
}

type localUser struct {
	user         User
	passwordHash []byte
}

const localTokenPrefix = "local:"

func NewLocal() *LocalProvider {
	return &LocalProvider{
		byID:    make(map[string]*localUser),
		byEmail: make(map[string]string),
	}
}

func (p *LocalProvider) CreateUser(_ context.Context, params CreateParams) (*User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if _, exists := p.byEmail[email]; exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		UserMetadata: cloneMetadata(params.Metadata),
	}
	p.byID[user.ID] = &localUser{user: user, passwordHash: hash}
	p.byEmail[email] = user.ID

	result := user
	return &result, nil
}

func (p *LocalProvider) UpdateUser(_ context.Context, userID string, params UpdateParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.byID[userID]
	if !ok {
		return ErrUnauthenticated
	}

	if params.Email != "" {
		email := strings.ToLower(strings.TrimSpace(params.Email))
		delete(p.byEmail, entry.user.Email)
		entry.user.Email = email
		p.byEmail[email] = userID
	}
	if params.Metadata != nil {
		entry.user.UserMetadata = cloneMetadata(params.Metadata)
	}
	return nil
}

func (p *LocalProvider) InviteByEmail(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}

func (p *LocalProvider) UserFromToken(_ context.Context, token string) (*User, error) {
	userID, ok := strings.CutPrefix(token, localTokenPrefix)
	if !ok {
		return nil, ErrUnauthenticated
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.byID[userID]
	if !ok {
		return nil, ErrUnauthenticated
	}
	user := entry.user
	user.UserMetadata = cloneMetadata(entry.user.UserMetadata)
	return &user, nil
}

// TokenFor returns the opaque token for a provisioned user.
func (p *LocalProvider) TokenFor(userID string) string {
	return localTokenPrefix + userID
}

// VerifyPassword checks credentials and returns the matching user.
func (p *LocalProvider) VerifyPassword(email, password string) (*User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, false
	}
	entry := p.byID[userID]
	if bcrypt.CompareHashAndPassword(entry.passwordHash, []byte(password)) != nil {
		return nil, false
	}
	user := entry.user
	return &user, true
}

func cloneMetadata(metadata map[string]interface{}) map[string]interface{} {
	if metadata == nil {
		return nil
	}
	clone := make(map[string]interface{}, len(metadata))
	for key, value := range metadata {
		clone[key] = value
	}
	return clone
}
