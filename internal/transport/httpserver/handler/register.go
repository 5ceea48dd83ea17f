package handler

import (
	"errors"
	"net/http"
	"time"

	churchdomain "church-app-go/internal/domain/church"
	"church-app-go/internal/identity"
)

type registerChurchRequest struct {
	Name                string `json:"name"`
	Slug                string `json:"slug"`
	PrimaryContactName  string `json:"primaryContactName"`
	PrimaryContactEmail string `json:"primaryContactEmail"`
	Password            string `json:"password"`
}

type churchResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Slug                string    `json:"slug"`
	PrimaryContactName  string    `json:"primaryContactName"`
	PrimaryContactEmail string    `json:"primaryContactEmail"`
	Status              string    `json:"status"`
	Plan                string    `json:"plan"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func toChurchResponse(record *churchdomain.Church) churchResponse {
	return churchResponse{
		ID:                  record.ID,
		Name:                record.Name,
		Slug:                record.Slug,
		PrimaryContactName:  record.PrimaryContactName,
		PrimaryContactEmail: record.PrimaryContactEmail,
		Status:              record.Status,
		Plan:                record.Plan,
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.UpdatedAt,
	}
}

func (h *Handlers) RegisterChurch(w http.ResponseWriter, r *http.Request) {
	var req registerChurchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Churches.Register(r.Context(), churchdomain.RegisterParams{
		Name:                req.Name,
		Slug:                req.Slug,
		PrimaryContactName:  req.PrimaryContactName,
		PrimaryContactEmail: req.PrimaryContactEmail,
		Password:            req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, churchdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, churchdomain.ErrSlugTaken):
			h.log.BusinessError("register: slug taken", err, "slug", req.Slug)
			writeError(w, http.StatusConflict, "slug_taken", "slug already in use")
		case errors.Is(err, identity.ErrEmailTaken):
			h.log.BusinessError("register: email taken", err, "email", req.PrimaryContactEmail)
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
		default:
			h.log.InternalError("register: church registration failed", err, "slug", req.Slug)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toChurchResponse(record))
}
