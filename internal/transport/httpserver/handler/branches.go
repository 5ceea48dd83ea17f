package handler

import (
	"errors"
	"net/http"
	"time"

	branchdomain "church-app-go/internal/domain/branch"
	"church-app-go/internal/session"
	"github.com/go-chi/chi/v5"
)

type branchRequest struct {
	Name     *string `json:"name"`
	City     *string `json:"city"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

type branchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Address   *string   `json:"address"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toBranchResponse(record *branchdomain.Branch) branchResponse {
	return branchResponse{
		ID:        record.ID,
		Name:      record.Name,
		City:      record.City,
		Address:   record.Address,
		IsActive:  record.IsActive,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func (h *Handlers) ListBranches(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	records, err := h.Branches.List(r.Context(), sess.ChurchID)
	if err != nil {
		h.log.InternalError("branches.list: list failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]branchResponse, 0, len(records))
	for i := range records {
		out = append(out, toBranchResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateBranch(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req branchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	params := branchdomain.CreateParams{Address: req.Address, IsActive: req.IsActive}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.City != nil {
		params.City = *req.City
	}

	record, err := h.Branches.Create(r.Context(), sess.ChurchID, params)
	if err != nil {
		if errors.Is(err, branchdomain.ErrValidation) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("branches.create: create failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toBranchResponse(record))
}

func (h *Handlers) GetBranch(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	branchID := chi.URLParam(r, "id")

	record, err := h.Branches.Get(r.Context(), sess.ChurchID, branchID)
	if err != nil {
		if errors.Is(err, branchdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "branch_not_found", "branch not found")
			return
		}
		h.log.InternalError("branches.get: get failed", err, "church_id", sess.ChurchID, "branch_id", branchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toBranchResponse(record))
}

func (h *Handlers) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	branchID := chi.URLParam(r, "id")

	var req branchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Branches.Update(r.Context(), sess.ChurchID, branchID, branchdomain.UpdateParams{
		Name:     req.Name,
		City:     req.City,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, branchdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "branch_not_found", "branch not found")
		case errors.Is(err, branchdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("branches.update: update failed", err, "church_id", sess.ChurchID, "branch_id", branchID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toBranchResponse(record))
}

func (h *Handlers) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	branchID := chi.URLParam(r, "id")

	if err := h.Branches.Delete(r.Context(), sess.ChurchID, branchID); err != nil {
		if errors.Is(err, branchdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "branch_not_found", "branch not found")
			return
		}
		h.log.InternalError("branches.delete: delete failed", err, "church_id", sess.ChurchID, "branch_id", branchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
