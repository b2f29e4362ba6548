package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	inventorydomain "band-manager-go/internal/domain/inventory"
	"band-manager-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createInstrumentRequest struct {
	Kind         string `json:"kind"`
	Brand        string `json:"brand"`
	SerialNumber string `json:"serial_number"`
}

type instrumentLoanRequest struct {
	UserID string `json:"user_id"`
}

type instrumentNoteRequest struct {
	Description string `json:"description"`
	Date        string `json:"date"`
}

type createMiscRequest struct {
	Name                  string  `json:"name"`
	Brand                 string  `json:"brand"`
	Quantity              int     `json:"quantity"`
	SpecificForInstrument *string `json:"specific_for_instrument,omitempty"`
}

type miscLoanRequest struct {
	UserID   string `json:"user_id"`
	Quantity int    `json:"quantity"`
}

type instrumentResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Brand        string `json:"brand,omitempty"`
	SerialNumber string `json:"serial_number"`
}

type instrumentLoanResponse struct {
	ID           string     `json:"id"`
	InstrumentID string     `json:"instrument_id"`
	UserID       string     `json:"user_id"`
	LoanedAt     time.Time  `json:"loaned_at"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
}

type miscResponse struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Brand                 string  `json:"brand,omitempty"`
	Quantity              int     `json:"quantity"`
	SpecificForInstrument *string `json:"specific_for_instrument,omitempty"`
}

type miscLoanResponse struct {
	ID              string     `json:"id"`
	MiscellaneousID string     `json:"miscellaneous_id"`
	UserID          string     `json:"user_id"`
	Quantity        int        `json:"quantity"`
	LoanedAt        time.Time  `json:"loaned_at"`
	ReturnedAt      *time.Time `json:"returned_at,omitempty"`
}

type instrumentNoteResponse struct {
	ID           string `json:"id"`
	InstrumentID string `json:"instrument_id"`
	Description  string `json:"description"`
	Date         string `json:"date"`
}

func toInstrumentResponse(ins *inventorydomain.Instrument) instrumentResponse {
	return instrumentResponse{ID: ins.ID, Kind: ins.Kind, Brand: ins.Brand, SerialNumber: ins.SerialNumber}
}

func toInstrumentLoanResponse(loan *inventorydomain.InstrumentLoan) instrumentLoanResponse {
	return instrumentLoanResponse{
		ID:           loan.ID,
		InstrumentID: loan.InstrumentID,
		UserID:       loan.UserID,
		LoanedAt:     loan.LoanedAt,
		ReturnedAt:   loan.ReturnedAt,
	}
}

func toMiscResponse(item *inventorydomain.Miscellaneous) miscResponse {
	return miscResponse{
		ID:                    item.ID,
		Name:                  item.Name,
		Brand:                 item.Brand,
		Quantity:              item.Quantity,
		SpecificForInstrument: item.SpecificForInstrument,
	}
}

func toMiscLoanResponse(loan *inventorydomain.MiscellaneousLoan) miscLoanResponse {
	return miscLoanResponse{
		ID:              loan.ID,
		MiscellaneousID: loan.MiscellaneousID,
		UserID:          loan.UserID,
		Quantity:        loan.Quantity,
		LoanedAt:        loan.LoanedAt,
		ReturnedAt:      loan.ReturnedAt,
	}
}

func (h *Handlers) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req createInstrumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ins, err := h.Inventory.CreateInstrument(r.Context(), principal, inventorydomain.CreateInstrumentInput{
		Kind:         req.Kind,
		Brand:        req.Brand,
		SerialNumber: req.SerialNumber,
	})
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrSerialTaken):
			h.log.BusinessError("inventory.create_instrument: serial taken", err, "serial", req.SerialNumber)
			writeError(w, http.StatusConflict, "serial_taken", "serial number already registered")
		default:
			h.log.InternalError("inventory.create_instrument: create failed", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toInstrumentResponse(ins))
}

// ListInstruments supports an optional ?loaned= filter for the on-loan and
// in-storage views.
func (h *Handlers) ListInstruments(w http.ResponseWriter, r *http.Request) {
	var instruments []inventorydomain.Instrument
	var err error
	if raw := r.URL.Query().Get("loaned"); raw != "" {
		loaned, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "loaned must be a boolean")
			return
		}
		instruments, err = h.Inventory.ListInstrumentsByLoanState(r.Context(), loaned)
	} else {
		instruments, err = h.Inventory.ListInstruments(r.Context())
	}
	if err != nil {
		h.log.InternalError("inventory.list_instruments: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]instrumentResponse, 0, len(instruments))
	for i := range instruments {
		result = append(result, toInstrumentResponse(&instruments[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetInstrument(w http.ResponseWriter, r *http.Request) {
	instrumentID := chi.URLParam(r, "instrument_id")

	ins, err := h.Inventory.GetInstrument(r.Context(), instrumentID)
	if err != nil {
		if errors.Is(err, inventorydomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("inventory.get_instrument: get failed", err, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toInstrumentResponse(ins))
}

func (h *Handlers) UpdateInstrument(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	instrumentID := chi.URLParam(r, "instrument_id")

	var req createInstrumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ins, err := h.Inventory.UpdateInstrument(r.Context(), principal, instrumentID, inventorydomain.CreateInstrumentInput{
		Kind:         req.Kind,
		Brand:        req.Brand,
		SerialNumber: req.SerialNumber,
	})
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, inventorydomain.ErrSerialTaken):
			h.log.BusinessError("inventory.update_instrument: serial taken", err, "instrument_id", instrumentID)
			writeError(w, http.StatusConflict, "serial_taken", "serial number already registered")
		default:
			h.log.InternalError("inventory.update_instrument: update failed", err, "instrument_id", instrumentID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toInstrumentResponse(ins))
}

func (h *Handlers) DeleteInstrument(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	instrumentID := chi.URLParam(r, "instrument_id")
	err := h.Inventory.DeleteInstrument(r.Context(), principal, instrumentID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		default:
			h.log.InternalError("inventory.delete_instrument: delete failed", err, "instrument_id", instrumentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LoanInstrument(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	instrumentID := chi.URLParam(r, "instrument_id")

	var req instrumentLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	loan, err := h.Inventory.LoanInstrument(r.Context(), principal, instrumentID, req.UserID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, inventorydomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, inventorydomain.ErrInstrumentOnLoan):
			h.log.BusinessError("inventory.loan_instrument: already on loan", err, "instrument_id", instrumentID)
			writeError(w, http.StatusConflict, "instrument_on_loan", "instrument is already on loan")
		default:
			h.log.InternalError("inventory.loan_instrument: loan failed", err, "instrument_id", instrumentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toInstrumentLoanResponse(loan))
}

func (h *Handlers) ReturnInstrument(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	instrumentID := chi.URLParam(r, "instrument_id")
	err := h.Inventory.ReturnInstrument(r.Context(), principal, instrumentID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		default:
			h.log.InternalError("inventory.return_instrument: return failed", err, "instrument_id", instrumentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReturnInstrumentLoan closes one loan record by id, for working off the
// loan list rather than the instrument register.
func (h *Handlers) ReturnInstrumentLoan(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	loanID := chi.URLParam(r, "loan_id")
	err := h.Inventory.ReturnInstrumentLoan(r.Context(), principal, loanID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrLoanNotFound):
			writeError(w, http.StatusNotFound, "loan_not_found", "loan not found")
		default:
			h.log.InternalError("inventory.return_instrument_loan: return failed", err, "loan_id", loanID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListMyInstrumentLoans(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var loans []inventorydomain.InstrumentLoan
	var err error
	if raw := r.URL.Query().Get("returned"); raw != "" {
		returned, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "returned must be a boolean")
			return
		}
		loans, err = h.Inventory.ListInstrumentLoansByUserAndReturned(r.Context(), principal.UserID, returned)
	} else {
		loans, err = h.Inventory.ListInstrumentLoansByUser(r.Context(), principal.UserID)
	}
	if err != nil {
		h.log.InternalError("inventory.list_my_loans: list failed", err, "user_id", principal.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]instrumentLoanResponse, 0, len(loans))
	for i := range loans {
		result = append(result, toInstrumentLoanResponse(&loans[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) AddInstrumentNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	instrumentID := chi.URLParam(r, "instrument_id")

	var req instrumentNoteRequest
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

	note, err := h.Inventory.AddNote(r.Context(), principal, instrumentID, req.Description, date)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		default:
			h.log.InternalError("inventory.add_note: add failed", err, "instrument_id", instrumentID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, instrumentNoteResponse{
		ID:           note.ID,
		InstrumentID: note.InstrumentID,
		Description:  note.Description,
		Date:         note.Date.Format("2006-01-02"),
	})
}

func (h *Handlers) ListInstrumentNotes(w http.ResponseWriter, r *http.Request) {
	instrumentID := chi.URLParam(r, "instrument_id")

	notes, err := h.Inventory.ListNotes(r.Context(), instrumentID)
	if err != nil {
		if errors.Is(err, inventorydomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("inventory.list_notes: list failed", err, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]instrumentNoteResponse, 0, len(notes))
	for _, note := range notes {
		result = append(result, instrumentNoteResponse{
			ID:           note.ID,
			InstrumentID: note.InstrumentID,
			Description:  note.Description,
			Date:         note.Date.Format("2006-01-02"),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) CreateMiscellaneous(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	var req createMiscRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	item, err := h.Inventory.CreateMiscellaneous(r.Context(), principal, inventorydomain.CreateMiscellaneousInput{
		Name:                  req.Name,
		Brand:                 req.Brand,
		Quantity:              req.Quantity,
		SpecificForInstrument: req.SpecificForInstrument,
	})
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, inventorydomain.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_request", "quantity must not be negative")
		default:
			h.log.InternalError("inventory.create_misc: create failed", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toMiscResponse(item))
}

// FindMiscellaneousItem looks an item up by name and optional brand, for the
// "do we already stock this" check before creating a duplicate entry.
func (h *Handlers) FindMiscellaneousItem(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	brand := r.URL.Query().Get("brand")
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	item, err := h.Inventory.FindMiscellaneous(r.Context(), name, brand)
	if err != nil {
		if errors.Is(err, inventorydomain.ErrMiscellaneousNotFound) {
			writeError(w, http.StatusNotFound, "misc_not_found", "miscellaneous item not found")
			return
		}
		h.log.InternalError("inventory.find_misc: find failed", err, "name", name)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toMiscResponse(item))
}

func (h *Handlers) ListMiscellaneous(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.ListMiscellaneous(r.Context())
	if err != nil {
		h.log.InternalError("inventory.list_misc: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]miscResponse, 0, len(items))
	for i := range items {
		result = append(result, toMiscResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

// GetMiscellaneous includes the computed available quantity alongside the
// owned total.
func (h *Handlers) GetMiscellaneous(w http.ResponseWriter, r *http.Request) {
	miscID := chi.URLParam(r, "misc_id")

	item, err := h.Inventory.GetMiscellaneous(r.Context(), miscID)
	if err != nil {
		if errors.Is(err, inventorydomain.ErrMiscellaneousNotFound) {
			writeError(w, http.StatusNotFound, "misc_not_found", "miscellaneous item not found")
			return
		}
		h.log.InternalError("inventory.get_misc: get failed", err, "misc_id", miscID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	available, err := h.Inventory.AvailableQuantity(r.Context(), miscID)
	if err != nil {
		h.log.InternalError("inventory.get_misc: available quantity failed", err, "misc_id", miscID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		miscResponse
		Available int `json:"available"`
	}{toMiscResponse(item), available})
}

func (h *Handlers) UpdateMiscellaneous(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	miscID := chi.URLParam(r, "misc_id")

	var req createMiscRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	item, err := h.Inventory.UpdateMiscellaneous(r.Context(), principal, miscID, inventorydomain.CreateMiscellaneousInput{
		Name:                  req.Name,
		Brand:                 req.Brand,
		Quantity:              req.Quantity,
		SpecificForInstrument: req.SpecificForInstrument,
	})
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrMiscellaneousNotFound):
			writeError(w, http.StatusNotFound, "misc_not_found", "miscellaneous item not found")
		case errors.Is(err, inventorydomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, inventorydomain.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_request", "quantity must cover outstanding loans and not be negative")
		default:
			h.log.InternalError("inventory.update_misc: update failed", err, "misc_id", miscID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toMiscResponse(item))
}

func (h *Handlers) DeleteMiscellaneous(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	miscID := chi.URLParam(r, "misc_id")
	err := h.Inventory.DeleteMiscellaneous(r.Context(), principal, miscID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrMiscellaneousNotFound):
			writeError(w, http.StatusNotFound, "misc_not_found", "miscellaneous item not found")
		default:
			h.log.InternalError("inventory.delete_misc: delete failed", err, "misc_id", miscID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LoanMiscellaneous(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	miscID := chi.URLParam(r, "misc_id")

	var req miscLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	loan, err := h.Inventory.LoanMiscellaneous(r.Context(), principal, miscID, req.UserID, req.Quantity)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrMiscellaneousNotFound):
			writeError(w, http.StatusNotFound, "misc_not_found", "miscellaneous item not found")
		case errors.Is(err, inventorydomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, inventorydomain.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be positive")
		case errors.Is(err, inventorydomain.ErrInsufficientQuantity):
			h.log.BusinessError("inventory.loan_misc: insufficient quantity", err, "misc_id", miscID, "quantity", req.Quantity)
			writeError(w, http.StatusConflict, "insufficient_quantity", "not enough items available")
		default:
			h.log.InternalError("inventory.loan_misc: loan failed", err, "misc_id", miscID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toMiscLoanResponse(loan))
}

func (h *Handlers) ReturnMiscellaneous(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	loanID := chi.URLParam(r, "loan_id")
	err := h.Inventory.ReturnMiscellaneous(r.Context(), principal, loanID)
	if err != nil {
		switch {
		case isForbidden(err):
			writeError(w, http.StatusForbidden, "forbidden", "committee role required")
		case errors.Is(err, inventorydomain.ErrLoanNotFound):
			writeError(w, http.StatusNotFound, "loan_not_found", "loan not found")
		default:
			h.log.InternalError("inventory.return_misc: return failed", err, "loan_id", loanID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListMyMiscellaneousLoans(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	loans, err := h.Inventory.ListMiscellaneousLoansByUser(r.Context(), principal.UserID)
	if err != nil {
		h.log.InternalError("inventory.list_my_misc_loans: list failed", err, "user_id", principal.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]miscLoanResponse, 0, len(loans))
	for i := range loans {
		result = append(result, toMiscLoanResponse(&loans[i]))
	}
	writeJSON(w, http.StatusOK, result)
}
