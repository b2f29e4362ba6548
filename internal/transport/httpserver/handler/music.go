package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	identitydomain "band-manager-go/internal/domain/identity"
	musicdomain "band-manager-go/internal/domain/music"
	"band-manager-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type musicSetRequest struct {
	Title               string `json:"title"`
	Composer            string `json:"composer"`
	Arranger            string `json:"arranger"`
	SuitableForTraining bool   `json:"suitable_for_training"`
}

type addPartRequest struct {
	PartName string `json:"part_name"`
}

type setNoteRequest struct {
	Description string `json:"description"`
	Date        string `json:"date"`
}

type createOrderRequest struct {
	ChildID string `json:"child_id"`
	Date    string `json:"date"`
}

type addOrderPartRequest struct {
	PartID string `json:"part_id"`
}

type musicSetResponse struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Composer            string `json:"composer,omitempty"`
	Arranger            string `json:"arranger,omitempty"`
	SuitableForTraining bool   `json:"suitable_for_training"`
}

type musicPartResponse struct {
	ID         string `json:"id"`
	PartName   string `json:"part_name"`
	MusicSetID string `json:"music_set_id"`
}

type musicOrderResponse struct {
	ID      string  `json:"id"`
	OwnerID string  `json:"owner_id"`
	ChildID *string `json:"child_id,omitempty"`
	Date    string  `json:"date"`
	Status  string  `json:"status"`
}

type setNoteResponse struct {
	ID          string `json:"id"`
	MusicSetID  string `json:"music_set_id"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func toMusicSetResponse(set *musicdomain.MusicSet) musicSetResponse {
	return musicSetResponse{
		ID:                  set.ID,
		Title:               set.Title,
		Composer:            set.Composer,
		Arranger:            set.Arranger,
		SuitableForTraining: set.SuitableForTraining,
	}
}

func toMusicPartResponses(parts []musicdomain.MusicPart) []musicPartResponse {
	result := make([]musicPartResponse, 0, len(parts))
	for _, part := range parts {
		result = append(result, musicPartResponse{ID: part.ID, PartName: part.PartName, MusicSetID: part.MusicSetID})
	}
	return result
}

func toMusicOrderResponse(order *musicdomain.MusicOrder) musicOrderResponse {
	return musicOrderResponse{
		ID:      order.ID,
		OwnerID: order.OwnerID,
		ChildID: order.ChildID,
		Date:    order.Date.Format("2006-01-02"),
		Status:  order.Status,
	}
}

func (h *Handlers) CreateMusicSet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req musicSetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	set, err := h.Music.CreateSet(r.Context(), principal, musicdomain.CreateSetInput{
		Title:               req.Title,
		Composer:            req.Composer,
		Arranger:            req.Arranger,
		SuitableForTraining: req.SuitableForTraining,
	})
	if err != nil {
		if isForbidden(err) {
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
			return
		}
		h.log.InternalError("music.create_set: create failed", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toMusicSetResponse(set))
}

// ListMusicSets supports an optional ?band_id= filter for a band's current
// repertoire.
func (h *Handlers) ListMusicSets(w http.ResponseWriter, r *http.Request) {
	var sets []musicdomain.MusicSet
	var err error
	if bandID := r.URL.Query().Get("band_id"); bandID != "" {
		sets, err = h.Music.ListSetsByBand(r.Context(), bandID)
		if errors.Is(err, musicdomain.ErrBandNotFound) {
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
			return
		}
	} else {
		sets, err = h.Music.ListSets(r.Context())
	}
	if err != nil {
		h.log.InternalError("music.list_sets: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]musicSetResponse, 0, len(sets))
	for i := range sets {
		result = append(result, toMusicSetResponse(&sets[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetMusicSet(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "set_id")

	set, err := h.Music.GetSet(r.Context(), setID)
	if err != nil {
		if errors.Is(err, musicdomain.ErrSetNotFound) {
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
			return
		}
		h.log.InternalError("music.get_set: get failed", err, "set_id", setID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toMusicSetResponse(set))
}

func (h *Handlers) UpdateMusicSet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	setID := chi.URLParam(r, "set_id")

	var req musicSetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	set, err := h.Music.UpdateSet(r.Context(), principal, setID, musicdomain.UpdateSetInput{
		Title:               req.Title,
		Composer:            req.Composer,
		Arranger:            req.Arranger,
		SuitableForTraining: req.SuitableForTraining,
	})
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrSetNotFound):
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
		default:
			h.log.InternalError("music.update_set: update failed", err, "set_id", setID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toMusicSetResponse(set))
}

func (h *Handlers) DeleteMusicSet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	setID := chi.URLParam(r, "set_id")
	err := h.Music.DeleteSet(r.Context(), principal, setID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrSetNotFound):
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
		default:
			h.log.InternalError("music.delete_set: delete failed", err, "set_id", setID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddMusicPart(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	setID := chi.URLParam(r, "set_id")

	var req addPartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	part, err := h.Music.AddPart(r.Context(), principal, setID, req.PartName)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrSetNotFound):
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
		default:
			h.log.InternalError("music.add_part: add failed", err, "set_id", setID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, musicPartResponse{ID: part.ID, PartName: part.PartName, MusicSetID: part.MusicSetID})
}

func (h *Handlers) ListMusicParts(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "set_id")

	parts, err := h.Music.ListParts(r.Context(), setID)
	if err != nil {
		if errors.Is(err, musicdomain.ErrSetNotFound) {
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
			return
		}
		h.log.InternalError("music.list_parts: list failed", err, "set_id", setID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMusicPartResponses(parts))
}

func (h *Handlers) DeleteMusicPart(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	partID := chi.URLParam(r, "part_id")
	err := h.Music.DeletePart(r.Context(), principal, partID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrPartNotFound):
			writeError(w, http.StatusNotFound, "music_part_not_found", "music part not found")
		default:
			h.log.InternalError("music.delete_part: delete failed", err, "part_id", partID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FindMusicPart locates a part by name, set title and optionally arranger,
// passed as query parameters.
func (h *Handlers) FindMusicPart(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	partName := query.Get("part_name")
	setTitle := query.Get("set_title")
	arranger := query.Get("arranger")
	if partName == "" || setTitle == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "part_name and set_title are required")
		return
	}

	part, err := h.Music.FindSpecificPart(r.Context(), partName, setTitle, arranger)
	if err != nil {
		if errors.Is(err, musicdomain.ErrPartNotFound) {
			writeError(w, http.StatusNotFound, "music_part_not_found", "music part not found")
			return
		}
		h.log.InternalError("music.find_part: find failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, musicPartResponse{ID: part.ID, PartName: part.PartName, MusicSetID: part.MusicSetID})
}

func (h *Handlers) AttachMusicSetBand(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	setID := chi.URLParam(r, "set_id")
	bandID := chi.URLParam(r, "band_id")

	err := h.Music.AttachBand(r.Context(), principal, setID, bandID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrNotTrainingSuitable):
			h.log.BusinessError("music.attach_band: not training suitable", err, "set_id", setID)
			writeError(w, http.StatusConflict, "not_training_suitable", "music set is not suitable for training")
		case errors.Is(err, musicdomain.ErrSetNotFound):
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
		case errors.Is(err, musicdomain.ErrBandNotFound):
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
		default:
			h.log.InternalError("music.attach_band: attach failed", err, "set_id", setID, "band_id", bandID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DetachMusicSetBand(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	setID := chi.URLParam(r, "set_id")
	bandID := chi.URLParam(r, "band_id")

	err := h.Music.DetachBand(r.Context(), principal, setID, bandID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrSetNotFound):
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
		default:
			h.log.InternalError("music.detach_band: detach failed", err, "set_id", setID, "band_id", bandID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ClearMusicSetBands(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	setID := chi.URLParam(r, "set_id")
	err := h.Music.ClearBands(r.Context(), principal, setID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrSetNotFound):
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
		default:
			h.log.InternalError("music.clear_bands: clear failed", err, "set_id", setID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddMusicSetNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	setID := chi.URLParam(r, "set_id")

	var req setNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDateRequired(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
			return
		}
		date = parsed
	}

	note, err := h.Music.AddNote(r.Context(), principal, setID, req.Description, date)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrSetNotFound):
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
		default:
			h.log.InternalError("music.add_note: add failed", err, "set_id", setID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, setNoteResponse{
		ID:          note.ID,
		MusicSetID:  note.MusicSetID,
		Description: note.Description,
		Date:        note.Date.Format("2006-01-02"),
	})
}

func (h *Handlers) ListMusicSetNotes(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "set_id")

	notes, err := h.Music.ListNotes(r.Context(), setID)
	if err != nil {
		if errors.Is(err, musicdomain.ErrSetNotFound) {
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
			return
		}
		h.log.InternalError("music.list_notes: list failed", err, "set_id", setID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]setNoteResponse, 0, len(notes))
	for _, note := range notes {
		result = append(result, setNoteResponse{
			ID:          note.ID,
			MusicSetID:  note.MusicSetID,
			Description: note.Description,
			Date:        note.Date.Format("2006-01-02"),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) CreateMusicOrder(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDateRequired(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
			return
		}
		date = parsed
	}

	var order *musicdomain.MusicOrder
	var err error
	if req.ChildID != "" {
		order, err = h.Music.CreateChildOrder(r.Context(), principal, req.ChildID, date)
	} else {
		order, err = h.Music.CreateOrder(r.Context(), principal, date)
	}
	if err != nil {
		if errors.Is(err, musicdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("music.create_order: create failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toMusicOrderResponse(order))
}

// ListMusicOrders supports optional ?owner_id=, ?child_id= and ?status=
// filters for the fulfilment views.
func (h *Handlers) ListMusicOrders(w http.ResponseWriter, r *http.Request) {
	if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
		orders, err := h.Music.ListOrdersByOwner(r.Context(), ownerID)
		if err != nil {
			h.log.InternalError("music.list_orders: list by owner failed", err, "owner_id", ownerID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toMusicOrderResponses(orders))
		return
	}

	if childID := r.URL.Query().Get("child_id"); childID != "" {
		orders, err := h.Music.ListOrdersByChild(r.Context(), childID)
		if err != nil {
			h.log.InternalError("music.list_orders: list by child failed", err, "child_id", childID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toMusicOrderResponses(orders))
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		orders, err := h.Music.ListOrdersByStatus(r.Context(), status)
		if err != nil {
			if errors.Is(err, musicdomain.ErrInvalidStatus) {
				writeError(w, http.StatusBadRequest, "invalid_request", "unknown order status")
				return
			}
			h.log.InternalError("music.list_orders: list by status failed", err, "status", status)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toMusicOrderResponses(orders))
		return
	}

	orders, err := h.Music.ListOrders(r.Context())
	if err != nil {
		h.log.InternalError("music.list_orders: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMusicOrderResponses(orders))
}

func toMusicOrderResponses(orders []musicdomain.MusicOrder) []musicOrderResponse {
	result := make([]musicOrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, toMusicOrderResponse(&orders[i]))
	}
	return result
}

func (h *Handlers) GetMusicOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.Music.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, musicdomain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		h.log.InternalError("music.get_order: get failed", err, "order_id", orderID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toMusicOrderResponse(order))
}

func (h *Handlers) AddMusicOrderPart(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	var req addOrderPartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.PartID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "part_id is required")
		return
	}

	err := h.Music.AddOrderPart(r.Context(), orderID, req.PartID)
	if err != nil {
		switch {
		case errors.Is(err, musicdomain.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order_not_found", "order not found")
		case errors.Is(err, musicdomain.ErrPartNotFound):
			writeError(w, http.StatusNotFound, "music_part_not_found", "music part not found")
		default:
			h.log.InternalError("music.add_order_part: add failed", err, "order_id", orderID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListMusicOrderParts(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	ids, err := h.Music.ListOrderPartIDs(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, musicdomain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		h.log.InternalError("music.list_order_parts: list failed", err, "order_id", orderID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"part_ids": ids})
}

func (h *Handlers) MarkOrderReady(w http.ResponseWriter, r *http.Request) {
	h.advanceOrder(w, r, h.Music.MarkReady)
}

func (h *Handlers) MarkOrderFulfilled(w http.ResponseWriter, r *http.Request) {
	h.advanceOrder(w, r, h.Music.MarkFulfilled)
}

func (h *Handlers) advanceOrder(w http.ResponseWriter, r *http.Request, advance func(context.Context, identitydomain.Principal, string) error) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	orderID := chi.URLParam(r, "order_id")
	err := advance(r.Context(), principal, orderID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order_not_found", "order not found")
		case errors.Is(err, musicdomain.ErrInvalidTransition):
			writeError(w, http.StatusConflict, "invalid_transition", "order cannot move to that status")
		default:
			h.log.InternalError("music.advance_order: update failed", err, "order_id", orderID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteMusicOrder(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	orderID := chi.URLParam(r, "order_id")
	err := h.Music.DeleteOrder(r.Context(), principal, orderID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, musicdomain.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order_not_found", "order not found")
		default:
			h.log.InternalError("music.delete_order: delete failed", err, "order_id", orderID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// NeededMusicParts lists what a user's bands play but the user does not own.
func (h *Handlers) NeededMusicParts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	parts, err := h.Music.NeededParts(r.Context(), userID)
	if err != nil {
		if errors.Is(err, musicdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("music.needed_parts: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMusicPartResponses(parts))
}

func (h *Handlers) OwnedMusicParts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	parts, err := h.Music.OwnedParts(r.Context(), userID)
	if err != nil {
		if errors.Is(err, musicdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("music.owned_parts: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMusicPartResponses(parts))
}
