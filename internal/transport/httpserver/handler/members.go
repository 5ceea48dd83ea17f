package handler

import (
	"errors"
	"net/http"
	"time"

	memberdomain "church-app-go/internal/domain/member"
	"church-app-go/internal/session"
	"github.com/go-chi/chi/v5"
)

type createMemberRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	BranchID    *string `json:"branchId"`
	Gender      *string `json:"gender"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Status      string  `json:"status"`
	JoinedDate  *string `json:"joinedDate"`
	DateOfBirth *string `json:"dateOfBirth"`
	BaptismDate *string `json:"baptismDate"`
}

type updateMemberRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	BranchID    *string `json:"branchId"`
	ClearBranch bool    `json:"clearBranch"`
	Gender      *string `json:"gender"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Status      *string `json:"status"`
	JoinedDate  *string `json:"joinedDate"`
	DateOfBirth *string `json:"dateOfBirth"`
	BaptismDate *string `json:"baptismDate"`
}

type memberResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	BranchID    *string   `json:"branchId"`
	Gender      *string   `json:"gender"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Status      string    `json:"status"`
	JoinedDate  string    `json:"joinedDate"`
	DateOfBirth *string   `json:"dateOfBirth"`
	BaptismDate *string   `json:"baptismDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toMemberResponse(record *memberdomain.Member) memberResponse {
	return memberResponse{
		ID:          record.ID,
		FirstName:   record.FirstName,
		LastName:    record.LastName,
		BranchID:    record.BranchID,
		Gender:      record.Gender,
		Email:       record.Email,
		Phone:       record.Phone,
		Status:      record.Status,
		JoinedDate:  record.JoinedDate.Format("2006-01-02"),
		DateOfBirth: formatDate(record.DateOfBirth),
		BaptismDate: formatDate(record.BaptismDate),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	filter := memberdomain.Filter{
		Search:   r.URL.Query().Get("search"),
		BranchID: r.URL.Query().Get("branchId"),
		Status:   r.URL.Query().Get("status"),
	}

	records, err := h.Members.List(r.Context(), sess.ChurchID, filter)
	if err != nil {
		h.log.InternalError("members.list: list failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]memberResponse, 0, len(records))
	for i := range records {
		out = append(out, toMemberResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	params, err := req.toParams()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := h.Members.Create(r.Context(), sess.ChurchID, params)
	if err != nil {
		if errors.Is(err, memberdomain.ErrValidation) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("members.create: create failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(record))
}

func (req *createMemberRequest) toParams() (memberdomain.CreateParams, error) {
	joined, err := parseDateField(req.JoinedDate)
	if err != nil {
		return memberdomain.CreateParams{}, err
	}
	birth, err := parseDateField(req.DateOfBirth)
	if err != nil {
		return memberdomain.CreateParams{}, err
	}
	baptism, err := parseDateField(req.BaptismDate)
	if err != nil {
		return memberdomain.CreateParams{}, err
	}
	return memberdomain.CreateParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BranchID:    optionalString(req.BranchID),
		Gender:      optionalString(req.Gender),
		Email:       optionalString(req.Email),
		Phone:       optionalString(req.Phone),
		Status:      req.Status,
		JoinedDate:  joined,
		DateOfBirth: birth,
		BaptismDate: baptism,
	}, nil
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	memberID := chi.URLParam(r, "id")

	record, err := h.Members.Get(r.Context(), sess.ChurchID, memberID)
	if err != nil {
		if errors.Is(err, memberdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.log.InternalError("members.get: get failed", err, "church_id", sess.ChurchID, "member_id", memberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(record))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	memberID := chi.URLParam(r, "id")

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	joined, err := parseDateField(req.JoinedDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	birth, err := parseDateField(req.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	baptism, err := parseDateField(req.BaptismDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := h.Members.Update(r.Context(), sess.ChurchID, memberID, memberdomain.UpdateParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BranchID:    optionalString(req.BranchID),
		ClearBranch: req.ClearBranch,
		Gender:      req.Gender,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      req.Status,
		JoinedDate:  joined,
		DateOfBirth: birth,
		BaptismDate: baptism,
	})
	if err != nil {
		switch {
		case errors.Is(err, memberdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, memberdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("members.update: update failed", err, "church_id", sess.ChurchID, "member_id", memberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(record))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	memberID := chi.URLParam(r, "id")

	if err := h.Members.Delete(r.Context(), sess.ChurchID, memberID); err != nil {
		if errors.Is(err, memberdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.log.InternalError("members.delete: delete failed", err, "church_id", sess.ChurchID, "member_id", memberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
