package session

import "errors"

var ErrForbidden = errors.New("forbidden")

// RequireRole fails unless the session carries one of the allowed roles.
// An empty or unknown role is always rejected.
func (s Session) RequireRole(allowed ...Role) error {
	if s.Role == "" {
		return ErrForbidden
	}
	for _, role := range allowed {
		if s.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// RequireTenant fails when the session has no church. Super-admin sessions
// have no tenant and are rejected here on purpose: tenant-scoped routes are
// not reachable with a platform session.
func (s Session) RequireTenant() error {
	if s.ChurchID == "" {
		return ErrForbidden
	}
	return nil
}

// MatchTenant fails unless the resource belongs to the session's church.
// Repositories already filter by church_id; this exists for operations that
// receive a church id from elsewhere (claims, cached records).
func (s Session) MatchTenant(churchID string) error {
	if s.ChurchID == "" || s.ChurchID != churchID {
		return ErrForbidden
	}
	return nil
}
