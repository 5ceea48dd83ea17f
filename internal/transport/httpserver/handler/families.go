package handler

import (
	"errors"
	"net/http"
	"time"

	familydomain "church-app-go/internal/domain/family"
	"church-app-go/internal/session"
	"github.com/go-chi/chi/v5"
)

type createFamilyRequest struct {
	FamilyName         *string `json:"familyName"`
	WeddingAnniversary *string `json:"weddingAnniversary"`
	Address            *string `json:"address"`
	HeadMemberID       *string `json:"headMemberId"`
}

type updateFamilyRequest struct {
	FamilyName         *string `json:"familyName"`
	WeddingAnniversary *string `json:"weddingAnniversary"`
	Address            *string `json:"address"`
}

type addFamilyMemberRequest struct {
	MemberID         string `json:"memberId"`
	Relationship     string `json:"relationship"`
	IsPrimaryContact bool   `json:"isPrimaryContact"`
}

type familyResponse struct {
	ID                 string    `json:"id"`
	FamilyName         *string   `json:"familyName"`
	WeddingAnniversary *string   `json:"weddingAnniversary"`
	Address            *string   `json:"address"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type familyRosterResponse struct {
	familyResponse
	HeadName    *string `json:"headName"`
	MemberCount int     `json:"memberCount"`
	ChildCount  int     `json:"childCount"`
}

type familyMemberLinkResponse struct {
	ID               string  `json:"id"`
	MemberID         string  `json:"memberId"`
	Relationship     string  `json:"relationship"`
	IsPrimaryContact bool    `json:"isPrimaryContact"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
}

type familyDetailResponse struct {
	familyResponse
	Members []familyMemberLinkResponse `json:"members"`
}

func toFamilyResponse(record *familydomain.Family) familyResponse {
	return familyResponse{
		ID:                 record.ID,
		FamilyName:         record.FamilyName,
		WeddingAnniversary: formatDate(record.WeddingAnniversary),
		Address:            record.Address,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
	}
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	entries, err := h.Families.Roster(r.Context(), sess.ChurchID)
	if err != nil {
		h.log.InternalError("families.list: roster failed", err, "church_id", sess.ChurchID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]familyRosterResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		out = append(out, familyRosterResponse{
			familyResponse: toFamilyResponse(&entry.Family),
			HeadName:       entry.HeadName,
			MemberCount:    entry.MemberCount,
			ChildCount:     entry.ChildCount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	anniversary, err := parseDateField(req.WeddingAnniversary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := h.Families.Create(r.Context(), sess.ChurchID, familydomain.CreateParams{
		FamilyName:         optionalString(req.FamilyName),
		WeddingAnniversary: anniversary,
		Address:            optionalString(req.Address),
		HeadMemberID:       optionalString(req.HeadMemberID),
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("families.create: head member not found", err, "church_id", sess.ChurchID)
			writeError(w, http.StatusNotFound, "member_not_found", "head member not found")
		default:
			h.log.InternalError("families.create: create failed", err, "church_id", sess.ChurchID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toFamilyResponse(record))
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	familyID := chi.URLParam(r, "id")

	detail, err := h.Families.Get(r.Context(), sess.ChurchID, familyID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.get: get failed", err, "church_id", sess.ChurchID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	members := make([]familyMemberLinkResponse, 0, len(detail.Members))
	for _, link := range detail.Members {
		members = append(members, familyMemberLinkResponse{
			ID:               link.ID,
			MemberID:         link.MemberID,
			Relationship:     link.Relationship,
			IsPrimaryContact: link.IsPrimaryContact,
			FirstName:        link.FirstName,
			LastName:         link.LastName,
			Email:            link.Email,
			Phone:            link.Phone,
		})
	}
	writeJSON(w, http.StatusOK, familyDetailResponse{
		familyResponse: toFamilyResponse(&detail.Family),
		Members:        members,
	})
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	familyID := chi.URLParam(r, "id")

	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	anniversary, err := parseDateField(req.WeddingAnniversary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := h.Families.Update(r.Context(), sess.ChurchID, familyID, familydomain.UpdateParams{
		FamilyName:         req.FamilyName,
		WeddingAnniversary: anniversary,
		Address:            req.Address,
	})
	if err != nil {
		if errors.Is(err, familydomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.update: update failed", err, "church_id", sess.ChurchID, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(record))
}

func (h *Handlers) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	familyID := chi.URLParam(r, "id")

	var req addFamilyMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	link, err := h.Families.AddMember(r.Context(), sess.ChurchID, familyID, familydomain.AddMemberParams{
		MemberID:         req.MemberID,
		Relationship:     req.Relationship,
		IsPrimaryContact: req.IsPrimaryContact,
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNotFound):
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		case errors.Is(err, familydomain.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, familydomain.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("families.add_member: add failed", err, "church_id", sess.ChurchID, "family_id", familyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":               link.ID,
		"familyId":         link.FamilyID,
		"memberId":         link.MemberID,
		"relationship":     link.Relationship,
		"isPrimaryContact": link.IsPrimaryContact,
	})
}
