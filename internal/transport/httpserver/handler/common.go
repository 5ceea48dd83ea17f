package handler

import (
	"net/http"

	"church-app-go/internal/session"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type authMeResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	ChurchID   *string `json:"churchId"`
	ChurchSlug *string `json:"churchSlug"`
	MemberID   *string `json:"memberId"`
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	writeJSON(w, http.StatusOK, authMeResponse{
		ID:         sess.UserID,
		Email:      sess.Email,
		Role:       string(sess.Role),
		ChurchID:   nilIfEmpty(sess.ChurchID),
		ChurchSlug: nilIfEmpty(sess.ChurchSlug),
		MemberID:   nilIfEmpty(sess.MemberID),
	})
}

func nilIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
