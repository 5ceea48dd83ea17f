package handler

import (
	"errors"
	"net/http"
	"time"

	memberdomain "church-app-go/internal/domain/member"
	pastordomain "church-app-go/internal/domain/pastor"
	"church-app-go/internal/session"
	"github.com/go-chi/chi/v5"
)

type pastorRequest struct {
	MemberID       string   `json:"memberId"`
	Email          string   `json:"email"`
	Title          string   `json:"title"`
	OrdinationDate *string  `json:"ordinationDate"`
	Bio            *string  `json:"bio"`
	BranchIDs      []string `json:"branchIds"`
}

type branchRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pastorResponse struct {
	ID             string    `json:"id"`
	MemberID       string    `json:"memberId"`
	Title          string    `json:"title"`
	OrdinationDate *string   `json:"ordinationDate"`
	Bio            *string   `json:"bio"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type pastorRosterResponse struct {
	pastorResponse
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Email     *string             `json:"email"`
	Branches  []branchRefResponse `json:"branches"`
}

type pastorDetailResponse struct {
	pastorResponse
	Member   memberInfoResponse  `json:"member"`
	Branches []branchRefResponse `json:"branches"`
}

type memberInfoResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email"`
}

func toPastorResponse(record *pastordomain.PastorProfile) pastorResponse {
	return pastorResponse{
		ID:             record.ID,
		MemberID:       record.MemberID,
		Title:          record.Title,
		OrdinationDate: formatDate(record.OrdinationDate),
		Bio:            record.Bio,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func toBranchRefs(refs []pastordomain.BranchRef) []branchRefResponse {
	out := make([]branchRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, branchRefResponse{ID: ref.ID, Name: ref.Name})
	}
	return out
}

func (h *Handlers) ListPastors(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	filter := pastordomain.Filter{
		Search:   r.URL.Query().Get("search"),
		BranchID: r.URL.Query().Get("branchId"),
	}

	entries, err := h.Pastors.Roster(r.Context(), sess.ChurchID, filter)
	if err != nil {
		h.log.InternalError("pastors.list: roster failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]pastorRosterResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		out = append(out, pastorRosterResponse{
			pastorResponse: toPastorResponse(&entry.PastorProfile),
			FirstName:      entry.FirstName,
			LastName:       entry.LastName,
			Email:          entry.Email,
			Branches:       toBranchRefs(entry.Branches),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreatePastor(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req pastorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ordination, err := parseDateField(req.OrdinationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := h.Pastors.Create(r.Context(), sess.ChurchID, pastordomain.CreateParams{
		MemberID:       req.MemberID,
		Email:          req.Email,
		Title:          req.Title,
		OrdinationDate: ordination,
		Bio:            optionalString(req.Bio),
		BranchIDs:      req.BranchIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, pastordomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, pastordomain.ErrMemberNotFound):
			h.log.BusinessError("pastors.create: member not found", err, "church_id", sess.ChurchID, "member_id", req.MemberID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, pastordomain.ErrAlreadyPastor):
			h.log.BusinessError("pastors.create: already a pastor", err, "church_id", sess.ChurchID, "member_id", req.MemberID)
			writeError(w, http.StatusConflict, "already_pastor", "member is already a pastor")
		case errors.Is(err, pastordomain.ErrEmailInUse):
			h.log.BusinessError("pastors.create: email in use", err, "church_id", sess.ChurchID, "email", req.Email)
			writeError(w, http.StatusConflict, "email_in_use", "login email already in use")
		case errors.Is(err, pastordomain.ErrBranchNotFound):
			writeError(w, http.StatusBadRequest, "branch_not_found", "one of the branches does not exist")
		default:
			h.log.InternalError("pastors.create: create failed", err, "church_id", sess.ChurchID, "member_id", req.MemberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toPastorResponse(record))
}

func (h *Handlers) GetPastor(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	profileID := chi.URLParam(r, "id")

	detail, err := h.Pastors.Get(r.Context(), sess.ChurchID, profileID)
	if err != nil {
		if errors.Is(err, pastordomain.ErrNotFound) || errors.Is(err, pastordomain.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "pastor_not_found", "pastor not found")
			return
		}
		h.log.InternalError("pastors.get: get failed", err, "church_id", sess.ChurchID, "pastor_id", profileID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, pastorDetailResponse{
		pastorResponse: toPastorResponse(&detail.PastorProfile),
		Member: memberInfoResponse{
			ID:        detail.Member.ID,
			FirstName: detail.Member.FirstName,
			LastName:  detail.Member.LastName,
			Email:     detail.Member.Email,
		},
		Branches: toBranchRefs(detail.Branches),
	})
}

func (h *Handlers) UpdatePastor(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	profileID := chi.URLParam(r, "id")

	var req pastorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ordination, err := parseDateField(req.OrdinationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := h.Pastors.Update(r.Context(), sess.ChurchID, profileID, pastordomain.UpdateParams{
		MemberID:       req.MemberID,
		Email:          req.Email,
		Title:          req.Title,
		OrdinationDate: ordination,
		Bio:            optionalString(req.Bio),
		BranchIDs:      req.BranchIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, pastordomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "pastor_not_found", "pastor not found")
		case errors.Is(err, pastordomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, pastordomain.ErrMemberImmutable):
			writeError(w, http.StatusBadRequest, "member_immutable", "the linked member cannot be changed")
		case errors.Is(err, pastordomain.ErrEmailInUse):
			h.log.BusinessError("pastors.update: email in use", err, "church_id", sess.ChurchID, "email", req.Email)
			writeError(w, http.StatusConflict, "email_in_use", "login email already in use")
		case errors.Is(err, pastordomain.ErrBranchNotFound):
			writeError(w, http.StatusBadRequest, "branch_not_found", "one of the branches does not exist")
		default:
			h.log.InternalError("pastors.update: update failed", err, "church_id", sess.ChurchID, "pastor_id", profileID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPastorResponse(record))
}

func (h *Handlers) DeletePastor(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	profileID := chi.URLParam(r, "id")

	if err := h.Pastors.Delete(r.Context(), sess.ChurchID, profileID); err != nil {
		if errors.Is(err, pastordomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pastor_not_found", "pastor not found")
			return
		}
		h.log.InternalError("pastors.delete: delete failed", err, "church_id", sess.ChurchID, "pastor_id", profileID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type memberSearchResponse struct {
	memberResponse
	BranchName *string `json:"branchName"`
}

// MemberSearch backs the pastor creation picker: find the member first, then
// promote them.
func (h *Handlers) MemberSearch(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	query := r.URL.Query().Get("q")

	results, err := h.Members.Search(r.Context(), sess.ChurchID, query)
	if err != nil {
		h.log.InternalError("pastors.member_search: search failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]memberSearchResponse, 0, len(results))
	for i := range results {
		out = append(out, memberSearchResponse{
			memberResponse: toMemberResponse(&results[i].Member),
			BranchName:     results[i].BranchName,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// QuickCreateMember creates a minimal member record from the pastor form so
// an unregistered person can be promoted in one flow.
func (h *Handlers) QuickCreateMember(w http.ResponseWriter, r *http.Request) {
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
		h.log.InternalError("pastors.quick_member: create failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(record))
}
