package handler

import (
	"errors"
	"net/http"
	"strconv"

	scheduledomain "band-manager-go/internal/domain/schedule"
	"band-manager-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type performanceRequest struct {
	Location  string `json:"location"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

type availabilityRequest struct {
	BandID    string `json:"band_id"`
	Available bool   `json:"available"`
}

type performanceResponse struct {
	ID        string `json:"id"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

type attendanceResponse struct {
	UserID        string `json:"user_id"`
	BandID        string `json:"band_id"`
	PerformanceID string `json:"performance_id"`
	Available     bool   `json:"available"`
}

func toPerformanceResponse(p *scheduledomain.Performance) performanceResponse {
	return performanceResponse{
		ID:        p.ID,
		Location:  p.Location,
		Date:      p.Date.Format("2006-01-02"),
		StartTime: p.StartTime,
	}
}

func toPerformanceResponses(performances []scheduledomain.Performance) []performanceResponse {
	result := make([]performanceResponse, 0, len(performances))
	for i := range performances {
		result = append(result, toPerformanceResponse(&performances[i]))
	}
	return result
}

func toAttendanceResponses(records []scheduledomain.AttendanceRecord) []attendanceResponse {
	result := make([]attendanceResponse, 0, len(records))
	for _, record := range records {
		result = append(result, attendanceResponse{
			UserID:        record.UserID,
			BandID:        record.BandID,
			PerformanceID: record.PerformanceID,
			Available:     record.Available,
		})
	}
	return result
}

func parsePerformanceRequest(req performanceRequest) (scheduledomain.CreatePerformanceInput, error) {
	date, err := parseDateRequired(req.Date)
	if err != nil {
		return scheduledomain.CreatePerformanceInput{}, err
	}
	startTime, err := parseTimeOfDay(req.StartTime)
	if err != nil {
		return scheduledomain.CreatePerformanceInput{}, err
	}
	return scheduledomain.CreatePerformanceInput{
		Location:  req.Location,
		Date:      date,
		StartTime: startTime,
	}, nil
}

func (h *Handlers) CreatePerformance(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req performanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	input, err := parsePerformanceRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	performance, err := h.Schedule.CreatePerformance(r.Context(), principal, input)
	if err != nil {
		if isForbidden(err) {
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
			return
		}
		h.log.InternalError("schedule.create: create failed", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toPerformanceResponse(performance))
}

func (h *Handlers) UpdatePerformance(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	performanceID := chi.URLParam(r, "performance_id")

	var req performanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	input, err := parsePerformanceRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	performance, err := h.Schedule.UpdatePerformance(r.Context(), principal, performanceID, scheduledomain.UpdatePerformanceInput(input))
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, scheduledomain.ErrPerformanceNotFound):
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
		default:
			h.log.InternalError("schedule.update: update failed", err, "performance_id", performanceID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPerformanceResponse(performance))
}

func (h *Handlers) GetPerformance(w http.ResponseWriter, r *http.Request) {
	performanceID := chi.URLParam(r, "performance_id")

	performance, err := h.Schedule.GetPerformance(r.Context(), performanceID)
	if err != nil {
		if errors.Is(err, scheduledomain.ErrPerformanceNotFound) {
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
			return
		}
		h.log.InternalError("schedule.get: get failed", err, "performance_id", performanceID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toPerformanceResponse(performance))
}

func (h *Handlers) ListPerformances(w http.ResponseWriter, r *http.Request) {
	if bandID := r.URL.Query().Get("band_id"); bandID != "" {
		performances, err := h.Schedule.ListPerformancesByBand(r.Context(), bandID)
		if err != nil {
			h.log.InternalError("schedule.list: list by band failed", err, "band_id", bandID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toPerformanceResponses(performances))
		return
	}

	performances, err := h.Schedule.ListPerformances(r.Context())
	if err != nil {
		h.log.InternalError("schedule.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toPerformanceResponses(performances))
}

func (h *Handlers) DeletePerformance(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	performanceID := chi.URLParam(r, "performance_id")
	err := h.Schedule.DeletePerformance(r.Context(), principal, performanceID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, scheduledomain.ErrPerformanceNotFound):
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
		default:
			h.log.InternalError("schedule.delete: delete failed", err, "performance_id", performanceID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LinkPerformanceBand(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	performanceID := chi.URLParam(r, "performance_id")
	bandID := chi.URLParam(r, "band_id")

	err := h.Schedule.LinkBand(r.Context(), principal, performanceID, bandID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, scheduledomain.ErrPerformanceNotFound):
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
		case errors.Is(err, scheduledomain.ErrBandNotFound):
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
		default:
			h.log.InternalError("schedule.link_band: link failed", err, "performance_id", performanceID, "band_id", bandID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UnlinkPerformanceBand(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	performanceID := chi.URLParam(r, "performance_id")
	bandID := chi.URLParam(r, "band_id")

	err := h.Schedule.UnlinkBand(r.Context(), principal, performanceID, bandID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, scheduledomain.ErrPerformanceNotFound):
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
		default:
			h.log.InternalError("schedule.unlink_band: unlink failed", err, "performance_id", performanceID, "band_id", bandID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LinkPerformanceMusicSet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	performanceID := chi.URLParam(r, "performance_id")
	setID := chi.URLParam(r, "set_id")

	err := h.Schedule.LinkMusicSet(r.Context(), principal, performanceID, setID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, scheduledomain.ErrPerformanceNotFound):
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
		case errors.Is(err, scheduledomain.ErrMusicSetNotFound):
			writeError(w, http.StatusNotFound, "music_set_not_found", "music set not found")
		default:
			h.log.InternalError("schedule.link_set: link failed", err, "performance_id", performanceID, "set_id", setID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UnlinkPerformanceMusicSet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	performanceID := chi.URLParam(r, "performance_id")
	setID := chi.URLParam(r, "set_id")

	err := h.Schedule.UnlinkMusicSet(r.Context(), principal, performanceID, setID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, scheduledomain.ErrPerformanceNotFound):
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
		default:
			h.log.InternalError("schedule.unlink_set: unlink failed", err, "performance_id", performanceID, "set_id", setID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListPerformanceBands(w http.ResponseWriter, r *http.Request) {
	performanceID := chi.URLParam(r, "performance_id")

	ids, err := h.Schedule.ListLinkedBandIDs(r.Context(), performanceID)
	if err != nil {
		if errors.Is(err, scheduledomain.ErrPerformanceNotFound) {
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
			return
		}
		h.log.InternalError("schedule.list_bands: list failed", err, "performance_id", performanceID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"band_ids": ids})
}

func (h *Handlers) ListPerformanceMusicSets(w http.ResponseWriter, r *http.Request) {
	performanceID := chi.URLParam(r, "performance_id")

	ids, err := h.Schedule.ListLinkedMusicSetIDs(r.Context(), performanceID)
	if err != nil {
		if errors.Is(err, scheduledomain.ErrPerformanceNotFound) {
			writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
			return
		}
		h.log.InternalError("schedule.list_sets: list failed", err, "performance_id", performanceID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"music_set_ids": ids})
}

// SetMyAvailability records whether the caller can attend a performance with
// one of their bands.
func (h *Handlers) SetMyAvailability(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	performanceID := chi.URLParam(r, "performance_id")

	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.BandID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "band_id is required")
		return
	}

	err := h.Schedule.SetAvailability(r.Context(), principal.UserID, req.BandID, performanceID, req.Available)
	if err != nil {
		if errors.Is(err, scheduledomain.ErrAttendanceNotFound) {
			h.log.BusinessError("schedule.set_availability: no attendance record", err, "performance_id", performanceID, "user_id", principal.UserID)
			writeError(w, http.StatusNotFound, "attendance_not_found", "no attendance record for this performance")
			return
		}
		h.log.InternalError("schedule.set_availability: update failed", err, "performance_id", performanceID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListAttendance(w http.ResponseWriter, r *http.Request) {
	performanceID := chi.URLParam(r, "performance_id")

	if raw := r.URL.Query().Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid available filter")
			return
		}
		records, err := h.Schedule.ListAttendanceByAvailability(r.Context(), performanceID, available)
		if err != nil {
			h.handleAttendanceListError(w, err, performanceID)
			return
		}
		writeJSON(w, http.StatusOK, toAttendanceResponses(records))
		return
	}

	records, err := h.Schedule.ListAttendance(r.Context(), performanceID)
	if err != nil {
		h.handleAttendanceListError(w, err, performanceID)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceResponses(records))
}

func (h *Handlers) handleAttendanceListError(w http.ResponseWriter, err error, performanceID string) {
	if errors.Is(err, scheduledomain.ErrPerformanceNotFound) {
		writeError(w, http.StatusNotFound, "performance_not_found", "performance not found")
		return
	}
	h.log.InternalError("schedule.list_attendance: list failed", err, "performance_id", performanceID)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
