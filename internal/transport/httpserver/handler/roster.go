package handler

import (
	"errors"
	"net/http"
	"time"

	rosterdomain "band-manager-go/internal/domain/roster"
	"band-manager-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createBandRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type bandResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

func toBandResponse(band *rosterdomain.Band) bandResponse {
	return bandResponse{ID: band.ID, Name: band.Name, CreatedAt: band.CreatedAt}
}

func (h *Handlers) CreateBand(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req createBandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	band, err := h.Roster.CreateBand(r.Context(), principal, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, rosterdomain.ErrBandNameTaken):
			h.log.BusinessError("roster.create_band: name taken", err, "name", req.Name)
			writeError(w, http.StatusConflict, "band_name_taken", "band name already in use")
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "director role required")
		default:
			h.log.InternalError("roster.create_band: create failed", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toBandResponse(band))
}

func (h *Handlers) ListBands(w http.ResponseWriter, r *http.Request) {
	bands, err := h.Roster.ListBands(r.Context())
	if err != nil {
		h.log.InternalError("roster.list_bands: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]bandResponse, 0, len(bands))
	for i := range bands {
		result = append(result, toBandResponse(&bands[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetBand(w http.ResponseWriter, r *http.Request) {
	bandID := chi.URLParam(r, "band_id")

	band, err := h.Roster.GetBand(r.Context(), bandID)
	if err != nil {
		if errors.Is(err, rosterdomain.ErrBandNotFound) {
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
			return
		}
		h.log.InternalError("roster.get_band: get failed", err, "band_id", bandID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toBandResponse(band))
}

// AddBandMember accepts either an email (adults) or a full name (children,
// who have no addressable email of their own).
func (h *Handlers) AddBandMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	bandID := chi.URLParam(r, "band_id")

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	var err error
	switch {
	case req.Email != "":
		err = h.Roster.AddMemberByEmail(r.Context(), principal, req.Email, bandID)
	case req.FullName != "":
		err = h.Roster.AddMemberByFullName(r.Context(), principal, req.FullName, bandID)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "email or full_name is required")
		return
	}
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "director role required")
		case errors.Is(err, rosterdomain.ErrBandNotFound):
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
		case errors.Is(err, rosterdomain.ErrUserNotFound):
			h.log.BusinessError("roster.add_member: user not found", err, "band_id", bandID)
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		default:
			h.log.InternalError("roster.add_member: add failed", err, "band_id", bandID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveBandMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	bandID := chi.URLParam(r, "band_id")
	userID := chi.URLParam(r, "user_id")

	err := h.Roster.RemoveMember(r.Context(), principal, userID, bandID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "director role required")
		case errors.Is(err, rosterdomain.ErrBandNotFound):
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
		default:
			h.log.InternalError("roster.remove_member: remove failed", err, "band_id", bandID, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListBandMembers(w http.ResponseWriter, r *http.Request) {
	bandID := chi.URLParam(r, "band_id")

	members, err := h.Roster.ListMembers(r.Context(), bandID)
	if err != nil {
		if errors.Is(err, rosterdomain.ErrBandNotFound) {
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
			return
		}
		h.log.InternalError("roster.list_members: list failed", err, "band_id", bandID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]memberResponse, 0, len(members))
	for _, member := range members {
		result = append(result, memberResponse{
			UserID:   member.UserID,
			FullName: member.FullName,
			Email:    member.Email,
			JoinedAt: member.JoinedAt,
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) ListMyBands(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	bands, err := h.Roster.ListBandsByUser(r.Context(), principal.UserID)
	if err != nil {
		h.log.InternalError("roster.list_my_bands: list failed", err, "user_id", principal.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]bandResponse, 0, len(bands))
	for i := range bands {
		result = append(result, toBandResponse(&bands[i]))
	}
	writeJSON(w, http.StatusOK, result)
}
