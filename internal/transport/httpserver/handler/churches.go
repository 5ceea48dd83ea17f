package handler

import (
	"errors"
	"net/http"
	"time"

	churchdomain "church-app-go/internal/domain/church"
	"church-app-go/internal/identity"
	"github.com/go-chi/chi/v5"
)

type createChurchRequest struct {
	registerChurchRequest
	Status string `json:"status"`
	Plan   string `json:"plan"`
}

type updateChurchRequest struct {
	Status              *string `json:"status"`
	Plan                *string `json:"plan"`
	Name                *string `json:"name"`
	PrimaryContactName  *string `json:"primaryContactName"`
	PrimaryContactEmail *string `json:"primaryContactEmail"`
}

func (h *Handlers) ListChurches(w http.ResponseWriter, r *http.Request) {
	records, err := h.Churches.List(r.Context())
	if err != nil {
		h.log.InternalError("churches.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]churchResponse, 0, len(records))
	for i := range records {
		out = append(out, toChurchResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateChurch(w http.ResponseWriter, r *http.Request) {
	var req createChurchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Churches.Create(r.Context(), churchdomain.CreateParams{
		RegisterParams: churchdomain.RegisterParams{
			Name:                req.Name,
			Slug:                req.Slug,
			PrimaryContactName:  req.PrimaryContactName,
			PrimaryContactEmail: req.PrimaryContactEmail,
			Password:            req.Password,
		},
		Status: req.Status,
		Plan:   req.Plan,
	})
	if err != nil {
		switch {
		case errors.Is(err, churchdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, churchdomain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid_status", "invalid status")
		case errors.Is(err, churchdomain.ErrInvalidPlan):
			writeError(w, http.StatusBadRequest, "invalid_plan", "invalid plan")
		case errors.Is(err, churchdomain.ErrSlugTaken):
			h.log.BusinessError("churches.create: slug taken", err, "slug", req.Slug)
			writeError(w, http.StatusConflict, "slug_taken", "slug already in use")
		case errors.Is(err, identity.ErrEmailTaken):
			h.log.BusinessError("churches.create: email taken", err, "email", req.PrimaryContactEmail)
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
		default:
			h.log.InternalError("churches.create: create failed", err, "slug", req.Slug)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toChurchResponse(record))
}

func (h *Handlers) GetChurch(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	record, err := h.Churches.GetByRef(r.Context(), ref)
	if err != nil {
		if errors.Is(err, churchdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "church_not_found", "church not found")
			return
		}
		h.log.InternalError("churches.get: get failed", err, "ref", ref)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toChurchResponse(record))
}

func (h *Handlers) UpdateChurch(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	var req updateChurchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Churches.Update(r.Context(), ref, churchdomain.UpdateParams{
		Status:              req.Status,
		Plan:                req.Plan,
		Name:                req.Name,
		PrimaryContactName:  req.PrimaryContactName,
		PrimaryContactEmail: req.PrimaryContactEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, churchdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "church_not_found", "church not found")
		case errors.Is(err, churchdomain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid_status", "invalid status")
		case errors.Is(err, churchdomain.ErrInvalidPlan):
			writeError(w, http.StatusBadRequest, "invalid_plan", "invalid plan")
		case errors.Is(err, churchdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("churches.update: update failed", err, "ref", ref)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toChurchResponse(record))
}

func (h *Handlers) DeleteChurch(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	if err := h.Churches.Delete(r.Context(), ref); err != nil {
		if errors.Is(err, churchdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "church_not_found", "church not found")
			return
		}
		h.log.InternalError("churches.delete: delete failed", err, "ref", ref)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type outboxActionResponse struct {
	ID          string    `json:"id"`
	ChurchID    string    `json:"churchId"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Attempts    int       `json:"attempts"`
	LastError   *string   `json:"lastError"`
	NextRetryAt time.Time `json:"nextRetryAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListOutboxFailures exposes failed identity actions for the platform
// operator. The payload body is deliberately omitted: it can hold emails.
func (h *Handlers) ListOutboxFailures(w http.ResponseWriter, r *http.Request) {
	actions, err := h.Outbox.ListFailed(r.Context())
	if err != nil {
		h.log.InternalError("outbox.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]outboxActionResponse, 0, len(actions))
	for _, action := range actions {
		out = append(out, outboxActionResponse{
			ID:          action.ID,
			ChurchID:    action.ChurchID,
			Kind:        action.Kind,
			Status:      action.Status,
			Attempts:    action.Attempts,
			LastError:   action.LastError,
			NextRetryAt: action.NextRetryAt,
			CreatedAt:   action.CreatedAt,
			UpdatedAt:   action.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
