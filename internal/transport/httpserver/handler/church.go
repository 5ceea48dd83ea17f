package handler

import (
	"errors"
	"net/http"

	churchdomain "church-app-go/internal/domain/church"
	"church-app-go/internal/session"
)

type updateOwnChurchRequest struct {
	Name                *string `json:"name"`
	PrimaryContactName  *string `json:"primaryContactName"`
	PrimaryContactEmail *string `json:"primaryContactEmail"`
}

func (h *Handlers) GetOwnChurch(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	record, err := h.Churches.GetByID(r.Context(), sess.ChurchID)
	if err != nil {
		if errors.Is(err, churchdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "church_not_found", "church not found")
			return
		}
		h.log.InternalError("church.get_own: get failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toChurchResponse(record))
}

func (h *Handlers) UpdateOwnChurch(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req updateOwnChurchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Churches.UpdateOwn(r.Context(), sess.ChurchID, churchdomain.UpdateParams{
		Name:                req.Name,
		PrimaryContactName:  req.PrimaryContactName,
		PrimaryContactEmail: req.PrimaryContactEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, churchdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "church_not_found", "church not found")
		case errors.Is(err, churchdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("church.update_own: update failed", err, "church_id", sess.ChurchID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toChurchResponse(record))
}
