package handler

import (
	"errors"
	"net/http"
	"time"

	identitydomain "band-manager-go/internal/domain/identity"
	"band-manager-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type updateAccountRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type linkChildRequest struct {
	ParentID string `json:"parent_id"`
	ChildID  string `json:"child_id"`
}

type promoteRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(user *identitydomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}
}

func toUserResponses(users []identitydomain.User) []userResponse {
	result := make([]userResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	result, err := h.Identity.Register(r.Context(), identitydomain.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, identitydomain.ErrEmailTaken) {
			h.log.BusinessError("identity.register: email taken", err, "email", req.Email)
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		h.log.InternalError("identity.register: register failed", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(result))
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	user, err := h.Identity.GetUser(r.Context(), principal.UserID)
	if err != nil {
		h.log.InternalError("identity.auth_me: get user failed", err, "user_id", principal.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Identity.ListUsers(r.Context())
	if err != nil {
		h.log.InternalError("identity.list: list users failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	user, err := h.Identity.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("identity.get: get user failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, err := h.Identity.UpdateAccount(r.Context(), principal.UserID, identitydomain.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.log.InternalError("identity.update: update account failed", err, "user_id", principal.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) LinkChild(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req linkChildRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	err := h.Identity.LinkChild(r.Context(), principal, req.ParentID, req.ChildID)
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrUnauthorized):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, identitydomain.ErrGuardianExists):
			h.log.BusinessError("identity.link_child: guardian exists", err, "child_id", req.ChildID)
			writeError(w, http.StatusConflict, "guardian_exists", "child already has a guardian")
		case errors.Is(err, identitydomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		default:
			h.log.InternalError("identity.link_child: link failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListChildren(w http.ResponseWriter, r *http.Request) {
	users, err := h.Identity.ListChildren(r.Context())
	if err != nil {
		h.log.InternalError("identity.list_children: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func (h *Handlers) ListMyChildren(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	users, err := h.Identity.ListChildrenOfParent(r.Context(), principal.UserID)
	if err != nil {
		h.log.InternalError("identity.list_my_children: list failed", err, "user_id", principal.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

// EffectiveContact resolves the reachable email and phone for a user: their
// own for adults, the guardian's for linked children.
func (h *Handlers) EffectiveContact(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	email, err := h.Identity.EffectiveEmail(r.Context(), userID)
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("identity.effective_contact: resolve email failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	phone, err := h.Identity.EffectivePhone(r.Context(), userID)
	if err != nil {
		h.log.InternalError("identity.effective_contact: resolve phone failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": email, "phone": phone})
}

func (h *Handlers) ListCommitteeMembers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Identity.ListCommitteeMembers(r.Context())
	if err != nil {
		h.log.InternalError("identity.list_committee: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func (h *Handlers) PromoteToCommittee(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req promoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, err := h.Identity.PromoteToCommittee(r.Context(), principal, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrUnauthorized):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, identitydomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		default:
			h.log.InternalError("identity.promote: promote failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) DemoteFromCommittee(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	userID := chi.URLParam(r, "user_id")
	err := h.Identity.DemoteFromCommittee(r.Context(), principal, userID)
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrUnauthorized):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, identitydomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		default:
			h.log.InternalError("identity.demote: demote failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
