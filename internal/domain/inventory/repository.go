package inventory

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateInstrument(ctx context.Context, ins *Instrument) error
	GetInstrument(ctx context.Context, id string) (*Instrument, error)
	GetInstrumentBySerial(ctx context.Context, serial string) (*Instrument, error)
	ListInstruments(ctx context.Context) ([]Instrument, error)
	// ListInstrumentsByLoanState returns instruments with an open loan when
	// loaned is true, otherwise the ones sitting in storage.
	ListInstrumentsByLoanState(ctx context.Context, loaned bool) ([]Instrument, error)
	UpdateInstrument(ctx context.Context, ins *Instrument) error
	DeleteInstrument(ctx context.Context, id string) error

	CreateInstrumentLoan(ctx context.Context, loan *InstrumentLoan) error
	GetInstrumentLoan(ctx context.Context, id string) (*InstrumentLoan, error)
	// GetOutstandingInstrumentLoan returns the open loan for an instrument,
	// or ErrLoanNotFound when the instrument is in storage.
	GetOutstandingInstrumentLoan(ctx context.Context, instrumentID string) (*InstrumentLoan, error)
	ListInstrumentLoansByUser(ctx context.Context, userID string) ([]InstrumentLoan, error)
	ListInstrumentLoansByUserAndReturned(ctx context.Context, userID string, returned bool) ([]InstrumentLoan, error)
	CloseInstrumentLoan(ctx context.Context, id string) error

	CreateNote(ctx context.Context, note *InstrumentNote) error
	ListNotesByInstrument(ctx context.Context, instrumentID string) ([]InstrumentNote, error)
	DeleteNote(ctx context.Context, id string) error
	DeleteNotesByInstrument(ctx context.Context, instrumentID string) error

	CreateMiscellaneous(ctx context.Context, item *Miscellaneous) error
	GetMiscellaneous(ctx context.Context, id string) (*Miscellaneous, error)
	// FindMiscellaneous looks an item up by name, narrowed by brand when
	// brand is non-empty.
	FindMiscellaneous(ctx context.Context, name, brand string) (*Miscellaneous, error)
	ListMiscellaneous(ctx context.Context) ([]Miscellaneous, error)
	UpdateMiscellaneous(ctx context.Context, item *Miscellaneous) error
	DeleteMiscellaneous(ctx context.Context, id string) error

	CreateMiscellaneousLoan(ctx context.Context, loan *MiscellaneousLoan) error
	GetMiscellaneousLoan(ctx context.Context, id string) (*MiscellaneousLoan, error)
	ListMiscellaneousLoansByUser(ctx context.Context, userID string) ([]MiscellaneousLoan, error)
	CloseMiscellaneousLoan(ctx context.Context, id string) error
	// SumOutstandingLoanQuantity totals the quantities of open loans for one
	// miscellaneous item.
	SumOutstandingLoanQuantity(ctx context.Context, miscID string) (int, error)

	UserExists(ctx context.Context, userID string) (bool, error)
}
