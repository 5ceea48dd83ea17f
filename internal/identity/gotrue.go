package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"church-app-go/internal/config"
)

// GoTrueProvider talks to a Supabase-compatible GoTrue server. Admin calls
// authenticate with the service-role key; UserFromToken uses the caller's
// access token.
type GoTrueProvider struct {
	baseURL        string
	apiKey         string
	serviceRoleKey string
	client         *http.Client
}

func NewGoTrue(cfg config.SupabaseConfig) *GoTrueProvider {
	timeout := cfg.AuthTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &GoTrueProvider{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		apiKey:         cfg.PublishableKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		client:         &http.Client{Timeout: timeout},
	}
}

type gotrueUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Sub          string                 `json:"sub"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	User         struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	} `json:"user"`
}

func (u gotrueUser) toUser() *User {
	id := firstNonEmpty(u.ID, u.Sub, u.User.ID, u.User.Sub)
	return &User{
		ID:           id,
		Email:        u.Email,
		UserMetadata: u.UserMetadata,
		AppMetadata:  u.AppMetadata,
	}
}

func (p *GoTrueProvider) CreateUser(ctx context.Context, params CreateParams) (*User, error) {
	body := map[string]interface{}{
		"email":         params.Email,
		"password":      params.Password,
		"email_confirm": params.EmailConfirm,
		"user_metadata": params.Metadata,
	}

	var payload gotrueUser
	status, err := p.do(ctx, http.MethodPost, "/auth/v1/admin/users", p.serviceRoleKey, body, &payload)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return nil, ErrEmailTaken
	case status >= 300:
		return nil, fmt.Errorf("%w: create user status %d", ErrUnavailable, status)
	}

	user := payload.toUser()
	if user.ID == "" {
		return nil, fmt.Errorf("%w: create user returned no id", ErrUnavailable)
	}
	return user, nil
}

func (p *GoTrueProvider) UpdateUser(ctx context.Context, userID string, params UpdateParams) error {
	body := map[string]interface{}{
		"user_metadata": params.Metadata,
	}
	if params.Email != "" {
		body["email"] = params.Email
	}

	status, err := p.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+userID, p.serviceRoleKey, body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("%w: update user status %d", ErrUnavailable, status)
	}
	return nil
}

func (p *GoTrueProvider) InviteByEmail(ctx context.Context, email string, metadata map[string]interface{}) error {
	body := map[string]interface{}{
		"email": email,
		"data":  metadata,
	}

	status, err := p.do(ctx, http.MethodPost, "/auth/v1/invite", p.serviceRoleKey, body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("%w: invite status %d", ErrUnavailable, status)
	}
	return nil
}

func (p *GoTrueProvider) UserFromToken(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnauthenticated
	}

	var payload gotrueUser
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, ErrUnauthenticated
	}

	user := payload.toUser()
	if user.ID == "" {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func (p *GoTrueProvider) do(ctx context.Context, method, path, bearer string, body interface{}, out interface{}) (int, error) {
	if p.baseURL == "" || bearer == "" {
		return 0, fmt.Errorf("%w: not configured", ErrUnavailable)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
		}
	}
	return resp.StatusCode, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
