package inventory

import "errors"

var (
	ErrInstrumentNotFound    = errors.New("instrument not found")
	ErrMiscellaneousNotFound = errors.New("miscellaneous item not found")
	ErrLoanNotFound          = errors.New("loan not found")
	ErrNoteNotFound          = errors.New("instrument note not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrSerialTaken           = errors.New("serial number already registered")
	ErrInstrumentOnLoan      = errors.New("instrument is already on loan")
	ErrInsufficientQuantity  = errors.New("not enough items available")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
)
