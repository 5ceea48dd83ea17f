package handler

import (
	"errors"
	"net/http"

	memberdomain "church-app-go/internal/domain/member"
	"church-app-go/internal/session"
	"github.com/go-chi/chi/v5"
)

// PastorListMembers returns the members of the branches assigned to the
// signed-in pastor. A pastor with no assignments sees an empty list.
func (h *Handlers) PastorListMembers(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if sess.MemberID == "" {
		writeError(w, http.StatusForbidden, "no_member_link", "pastor session has no member link")
		return
	}

	branchIDs, err := h.Pastors.AssignedBranchIDs(r.Context(), sess.ChurchID, sess.MemberID)
	if err != nil {
		h.log.InternalError("pastor.members: branch lookup failed", err, "church_id", sess.ChurchID, "member_id", sess.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	records, err := h.Members.ListByBranches(r.Context(), sess.ChurchID, branchIDs)
	if err != nil {
		h.log.InternalError("pastor.members: list failed", err, "church_id", sess.ChurchID, "member_id", sess.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]memberResponse, 0, len(records))
	for i := range records {
		out = append(out, toMemberResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// PastorGetMember returns a single member, provided the member belongs to
// one of the pastor's assigned branches. Members outside the assignment set
// answer not found so the portal does not reveal their existence.
func (h *Handlers) PastorGetMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if sess.MemberID == "" {
		writeError(w, http.StatusForbidden, "no_member_link", "pastor session has no member link")
		return
	}
	memberID := chi.URLParam(r, "id")

	branchIDs, err := h.Pastors.AssignedBranchIDs(r.Context(), sess.ChurchID, sess.MemberID)
	if err != nil {
		h.log.InternalError("pastor.get_member: branch lookup failed", err, "church_id", sess.ChurchID, "member_id", sess.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	record, err := h.Members.Get(r.Context(), sess.ChurchID, memberID)
	if err != nil {
		if errors.Is(err, memberdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.log.InternalError("pastor.get_member: get failed", err, "church_id", sess.ChurchID, "member_id", memberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if record.BranchID == nil || !containsString(branchIDs, *record.BranchID) {
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(record))
}

// PastorCreateMember creates a member into one of the pastor's assigned
// branches. Branches outside the assignment set are rejected.
func (h *Handlers) PastorCreateMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if sess.MemberID == "" {
		writeError(w, http.StatusForbidden, "no_member_link", "pastor session has no member link")
		return
	}

	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.BranchID == nil || *req.BranchID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "branchId is required")
		return
	}

	branchIDs, err := h.Pastors.AssignedBranchIDs(r.Context(), sess.ChurchID, sess.MemberID)
	if err != nil {
		h.log.InternalError("pastor.create_member: branch lookup failed", err, "church_id", sess.ChurchID, "member_id", sess.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if !containsString(branchIDs, *req.BranchID) {
		writeError(w, http.StatusForbidden, "branch_not_assigned", "branch is not assigned to this pastor")
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
		h.log.InternalError("pastor.create_member: create failed", err, "church_id", sess.ChurchID, "member_id", sess.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(record))
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
