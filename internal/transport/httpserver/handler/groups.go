package handler

import (
	"errors"
	"net/http"
	"time"

	groupdomain "church-app-go/internal/domain/group"
	"church-app-go/internal/session"
	"github.com/go-chi/chi/v5"
)

type createGroupRequest struct {
	Name        string  `json:"name"`
	Type        *string `json:"type"`
	BranchID    *string `json:"branchId"`
	Description *string `json:"description"`
}

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	BranchID    *string `json:"branchId"`
	ClearBranch bool    `json:"clearBranch"`
	Description *string `json:"description"`
}

type groupMemberRequest struct {
	MemberID string `json:"memberId"`
}

type createAnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        *string   `json:"type"`
	BranchID    *string   `json:"branchId"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type groupListResponse struct {
	groupResponse
	BranchName  *string `json:"branchName"`
	MemberCount int     `json:"memberCount"`
}

type groupMemberResponse struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"memberId"`
	JoinedAt    time.Time `json:"joinedAt"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	DateOfBirth *string   `json:"dateOfBirth"`
	Status      string    `json:"status"`
	BranchID    *string   `json:"branchId"`
	BranchName  *string   `json:"branchName"`
}

type candidateResponse struct {
	MemberID    string  `json:"memberId"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Status      string  `json:"status"`
	BranchID    *string `json:"branchId"`
	BranchName  *string `json:"branchName"`
}

type announcementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func toGroupResponse(record *groupdomain.Group) groupResponse {
	return groupResponse{
		ID:          record.ID,
		Name:        record.Name,
		Type:        record.Type,
		BranchID:    record.BranchID,
		Description: record.Description,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	entries, err := h.Groups.List(r.Context(), sess.ChurchID)
	if err != nil {
		h.log.InternalError("groups.list: list failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]groupListResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		out = append(out, groupListResponse{
			groupResponse: toGroupResponse(&entry.Group),
			BranchName:    entry.BranchName,
			MemberCount:   entry.MemberCount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Groups.Create(r.Context(), sess.ChurchID, groupdomain.CreateParams{
		Name:        req.Name,
		Type:        optionalString(req.Type),
		BranchID:    optionalString(req.BranchID),
		Description: optionalString(req.Description),
	})
	if err != nil {
		if errors.Is(err, groupdomain.ErrValidation) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("groups.create: create failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(record))
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")

	record, err := h.Groups.Get(r.Context(), sess.ChurchID, groupID)
	if err != nil {
		if errors.Is(err, groupdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
			return
		}
		h.log.InternalError("groups.get: get failed", err, "church_id", sess.ChurchID, "group_id", groupID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(record))
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")

	var req updateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Groups.Update(r.Context(), sess.ChurchID, groupID, groupdomain.UpdateParams{
		Name:        req.Name,
		Type:        req.Type,
		BranchID:    optionalString(req.BranchID),
		ClearBranch: req.ClearBranch,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
		case errors.Is(err, groupdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("groups.update: update failed", err, "church_id", sess.ChurchID, "group_id", groupID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(record))
}

// ListGroupMembers serves both the member roster and, with scope=candidates,
// the set of tenant members not yet in the group.
func (h *Handlers) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")

	if r.URL.Query().Get("scope") == "candidates" {
		h.listGroupCandidates(w, r, sess.ChurchID, groupID)
		return
	}

	entries, err := h.Groups.Members(r.Context(), sess.ChurchID, groupID)
	if err != nil {
		if errors.Is(err, groupdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
			return
		}
		h.log.InternalError("groups.members: list failed", err, "church_id", sess.ChurchID, "group_id", groupID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]groupMemberResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, groupMemberResponse{
			ID:          entry.GroupMemberID,
			MemberID:    entry.MemberID,
			JoinedAt:    entry.JoinedAt,
			FirstName:   entry.FirstName,
			LastName:    entry.LastName,
			Email:       entry.Email,
			Phone:       entry.Phone,
			DateOfBirth: formatDate(entry.DateOfBirth),
			Status:      entry.Status,
			BranchID:    entry.BranchID,
			BranchName:  entry.BranchName,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listGroupCandidates(w http.ResponseWriter, r *http.Request, churchID, groupID string) {
	candidates, err := h.Groups.Candidates(r.Context(), churchID, groupID, groupdomain.CandidateFilter{
		Search:   r.URL.Query().Get("search"),
		BranchID: r.URL.Query().Get("branchId"),
		Status:   r.URL.Query().Get("status"),
	})
	if err != nil {
		if errors.Is(err, groupdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
			return
		}
		h.log.InternalError("groups.candidates: list failed", err, "church_id", churchID, "group_id", groupID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]candidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, candidateResponse{
			MemberID:    candidate.MemberID,
			FirstName:   candidate.FirstName,
			LastName:    candidate.LastName,
			Email:       candidate.Email,
			Phone:       candidate.Phone,
			DateOfBirth: formatDate(candidate.DateOfBirth),
			Status:      candidate.Status,
			BranchID:    candidate.BranchID,
			BranchName:  candidate.BranchName,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")

	var req groupMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	link, err := h.Groups.AddMember(r.Context(), sess.ChurchID, groupID, req.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
		case errors.Is(err, groupdomain.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, groupdomain.ErrAlreadyInGroup):
			h.log.BusinessError("groups.add_member: already in group", err, "church_id", sess.ChurchID, "group_id", groupID, "member_id", req.MemberID)
			writeError(w, http.StatusConflict, "already_in_group", "member already in group")
		case errors.Is(err, groupdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("groups.add_member: add failed", err, "church_id", sess.ChurchID, "group_id", groupID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       link.ID,
		"groupId":  link.GroupID,
		"memberId": link.MemberID,
		"joinedAt": link.JoinedAt,
	})
}

func (h *Handlers) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")

	var req groupMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Groups.RemoveMember(r.Context(), sess.ChurchID, groupID, req.MemberID); err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
		case errors.Is(err, groupdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("groups.remove_member: remove failed", err, "church_id", sess.ChurchID, "group_id", groupID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")

	records, err := h.Groups.Announcements(r.Context(), sess.ChurchID, groupID)
	if err != nil {
		if errors.Is(err, groupdomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
			return
		}
		h.log.InternalError("groups.announcements: list failed", err, "church_id", sess.ChurchID, "group_id", groupID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]announcementResponse, 0, len(records))
	for _, record := range records {
		out = append(out, announcementResponse{
			ID:        record.ID,
			Title:     record.Title,
			Body:      record.Body,
			CreatedBy: record.CreatedBy,
			CreatedAt: record.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")

	var req createAnnouncementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Groups.CreateAnnouncement(r.Context(), sess.ChurchID, groupID, sess.UserID, req.Title, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
		case errors.Is(err, groupdomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("groups.create_announcement: create failed", err, "church_id", sess.ChurchID, "group_id", groupID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, announcementResponse{
		ID:        record.ID,
		Title:     record.Title,
		Body:      record.Body,
		CreatedBy: record.CreatedBy,
		CreatedAt: record.CreatedAt,
	})
}
