package session

import (
	"context"
	"strings"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RolePastor     Role = "PASTOR"
)

func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	case RoleAdmin:
		return RoleAdmin, true
	case RolePastor:
		return RolePastor, true
	}
	return "", false
}

// Session is the typed identity attached to every authenticated request.
// It is built once at the auth boundary; handlers and services never read
// provider metadata directly.
type Session struct {
	UserID     string
	Email      string
	Role       Role
	ChurchID   string
	ChurchSlug string
	MemberID   string
}

// FromClaims maps provider metadata onto a Session. Per-user metadata wins
// over provider-level app metadata for every claim.
func FromClaims(userID, email string, userMeta, appMeta map[string]interface{}) Session {
	s := Session{UserID: userID, Email: email}

	if role, ok := ParseRole(claimString(userMeta, appMeta, "role")); ok {
		s.Role = role
	}
	s.ChurchID = claimString(userMeta, appMeta, "church_id")
	s.ChurchSlug = claimString(userMeta, appMeta, "church_slug")
	s.MemberID = claimString(userMeta, appMeta, "member_id")
	return s
}

// Metadata renders the session attributes back into the provider metadata
// layout used when provisioning identities.
func Metadata(role Role, churchID, churchSlug, memberID string) map[string]interface{} {
	meta := map[string]interface{}{
		"role":        string(role),
		"church_id":   churchID,
		"church_slug": churchSlug,
	}
	if memberID != "" {
		meta["member_id"] = memberID
	}
	return meta
}

func claimString(userMeta, appMeta map[string]interface{}, key string) string {
	if value := stringFromMap(userMeta, key); value != "" {
		return value
	}
	return stringFromMap(appMeta, key)
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key]
	if !ok {
		return ""
	}
	parsed, ok := value.(string)
	if !ok {
		return ""
	}
	return parsed
}

type contextKey int

const sessionKey contextKey = iota

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	value := ctx.Value(sessionKey)
	s, ok := value.(Session)
	if !ok || s.UserID == "" {
		return Session{}, false
	}
	return s, true
}
