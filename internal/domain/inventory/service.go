package inventory

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"band-manager-go/internal/domain/identity"
)

type Service struct {
	repo Repository

	// Serializes quantity checks per miscellaneous item so two concurrent
	// loans cannot both pass the availability check and oversell the stock.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, locks: make(map[string]*sync.Mutex)}
}

func (s *Service) itemLock(miscID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[miscID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[miscID] = lock
	}
	return lock
}

func (s *Service) CreateInstrument(ctx context.Context, caller identity.Principal, input CreateInstrumentInput) (*Instrument, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	input.Kind = strings.TrimSpace(input.Kind)
	input.SerialNumber = strings.TrimSpace(input.SerialNumber)
	if input.Kind == "" {
		return nil, fmt.Errorf("kind is required")
	}
	if input.SerialNumber == "" {
		return nil, fmt.Errorf("serial number is required")
	}

	var result Instrument
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetInstrumentBySerial(ctx, input.SerialNumber)
		if err == nil {
			return ErrSerialTaken
		}
		if !errors.Is(err, ErrInstrumentNotFound) {
			return err
		}

		id, err := newUUID()
		if err != nil {
			return err
		}

		ins := Instrument{
			ID:           id,
			Kind:         input.Kind,
			Brand:        strings.TrimSpace(input.Brand),
			SerialNumber: input.SerialNumber,
		}
		if err := tx.CreateInstrument(ctx, &ins); err != nil {
			return err
		}
		result = ins
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) GetInstrument(ctx context.Context, id string) (*Instrument, error) {
	return s.repo.GetInstrument(ctx, id)
}

func (s *Service) ListInstruments(ctx context.Context) ([]Instrument, error) {
	return s.repo.ListInstruments(ctx)
}

func (s *Service) ListInstrumentsByLoanState(ctx context.Context, loaned bool) ([]Instrument, error) {
	return s.repo.ListInstrumentsByLoanState(ctx, loaned)
}

func (s *Service) ListInstrumentLoansByUserAndReturned(ctx context.Context, userID string, returned bool) ([]InstrumentLoan, error) {
	return s.repo.ListInstrumentLoansByUserAndReturned(ctx, userID, returned)
}

func (s *Service) DeleteInstrument(ctx context.Context, caller identity.Principal, id string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetInstrument(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteNotesByInstrument(ctx, id); err != nil {
			return err
		}
		return tx.DeleteInstrument(ctx, id)
	})
}

// LoanInstrument hands an instrument to a user. An instrument with an open
// loan cannot be loaned again until returned.
func (s *Service) LoanInstrument(ctx context.Context, caller identity.Principal, instrumentID, userID string) (*InstrumentLoan, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}

	var result InstrumentLoan
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetInstrument(ctx, instrumentID); err != nil {
			return err
		}
		ok, err := tx.UserExists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		_, err = tx.GetOutstandingInstrumentLoan(ctx, instrumentID)
		if err == nil {
			return ErrInstrumentOnLoan
		}
		if !errors.Is(err, ErrLoanNotFound) {
			return err
		}

		id, err := newUUID()
		if err != nil {
			return err
		}

		loan := InstrumentLoan{ID: id, InstrumentID: instrumentID, UserID: userID, LoanedAt: time.Now()}
		if err := tx.CreateInstrumentLoan(ctx, &loan); err != nil {
			return err
		}
		result = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ReturnInstrument closes the open loan of an instrument. Returning an
// instrument already in storage is a no-op.
func (s *Service) UpdateInstrument(ctx context.Context, caller identity.Principal, id string, input CreateInstrumentInput) (*Instrument, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	input.Kind = strings.TrimSpace(input.Kind)
	input.SerialNumber = strings.TrimSpace(input.SerialNumber)
	if input.Kind == "" {
		return nil, fmt.Errorf("kind is required")
	}
	if input.SerialNumber == "" {
		return nil, fmt.Errorf("serial number is required")
	}

	var result Instrument
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		ins, err := tx.GetInstrument(ctx, id)
		if err != nil {
			return err
		}

		if input.SerialNumber != ins.SerialNumber {
			_, err := tx.GetInstrumentBySerial(ctx, input.SerialNumber)
			if err == nil {
				return ErrSerialTaken
			}
			if !errors.Is(err, ErrInstrumentNotFound) {
				return err
			}
		}

		ins.Kind = input.Kind
		ins.Brand = strings.TrimSpace(input.Brand)
		ins.SerialNumber = input.SerialNumber
		if err := tx.UpdateInstrument(ctx, ins); err != nil {
			return err
		}
		result = *ins
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ReturnInstrument(ctx context.Context, caller identity.Principal, instrumentID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetInstrument(ctx, instrumentID); err != nil {
			return err
		}

		loan, err := tx.GetOutstandingInstrumentLoan(ctx, instrumentID)
		if errors.Is(err, ErrLoanNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.CloseInstrumentLoan(ctx, loan.ID)
	})
}

// ReturnInstrumentLoan closes a specific loan record. Returning a loan that
// is already closed is a no-op.
func (s *Service) ReturnInstrumentLoan(ctx context.Context, caller identity.Principal, loanID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		loan, err := tx.GetInstrumentLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.ReturnedAt != nil {
			return nil
		}
		return tx.CloseInstrumentLoan(ctx, loan.ID)
	})
}

func (s *Service) ListInstrumentLoansByUser(ctx context.Context, userID string) ([]InstrumentLoan, error) {
	return s.repo.ListInstrumentLoansByUser(ctx, userID)
}

func (s *Service) AddNote(ctx context.Context, caller identity.Principal, instrumentID, description string, date time.Time) (*InstrumentNote, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}

	if _, err := s.repo.GetInstrument(ctx, instrumentID); err != nil {
		return nil, err
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	note := InstrumentNote{ID: id, InstrumentID: instrumentID, Description: description, Date: date}
	if err := s.repo.CreateNote(ctx, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *Service) ListNotes(ctx context.Context, instrumentID string) ([]InstrumentNote, error) {
	if _, err := s.repo.GetInstrument(ctx, instrumentID); err != nil {
		return nil, err
	}
	return s.repo.ListNotesByInstrument(ctx, instrumentID)
}

func (s *Service) DeleteNote(ctx context.Context, caller identity.Principal, noteID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}
	return s.repo.DeleteNote(ctx, noteID)
}

func (s *Service) CreateMiscellaneous(ctx context.Context, caller identity.Principal, input CreateMiscellaneousInput) (*Miscellaneous, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	var result Miscellaneous
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if input.SpecificForInstrument != nil {
			if _, err := tx.GetInstrument(ctx, *input.SpecificForInstrument); err != nil {
				return err
			}
		}

		id, err := newUUID()
		if err != nil {
			return err
		}

		item := Miscellaneous{
			ID:                    id,
			Name:                  input.Name,
			Brand:                 strings.TrimSpace(input.Brand),
			Quantity:              input.Quantity,
			SpecificForInstrument: input.SpecificForInstrument,
		}
		if err := tx.CreateMiscellaneous(ctx, &item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) GetMiscellaneous(ctx context.Context, id string) (*Miscellaneous, error) {
	return s.repo.GetMiscellaneous(ctx, id)
}

func (s *Service) UpdateMiscellaneous(ctx context.Context, caller identity.Principal, id string, input CreateMiscellaneousInput) (*Miscellaneous, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	lock := s.itemLock(id)
	lock.Lock()
	defer lock.Unlock()

	var result Miscellaneous
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := tx.GetMiscellaneous(ctx, id)
		if err != nil {
			return err
		}

		if input.SpecificForInstrument != nil {
			if _, err := tx.GetInstrument(ctx, *input.SpecificForInstrument); err != nil {
				return err
			}
		}

		// Stock cannot shrink below what is currently out on loan.
		outstanding, err := tx.SumOutstandingLoanQuantity(ctx, id)
		if err != nil {
			return err
		}
		if input.Quantity < outstanding {
			return ErrInvalidQuantity
		}

		item.Name = input.Name
		item.Brand = strings.TrimSpace(input.Brand)
		item.Quantity = input.Quantity
		item.SpecificForInstrument = input.SpecificForInstrument
		if err := tx.UpdateMiscellaneous(ctx, item); err != nil {
			return err
		}
		result = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindMiscellaneous locates an item by name and, when brand is non-empty,
// by brand as well.
func (s *Service) FindMiscellaneous(ctx context.Context, name, brand string) (*Miscellaneous, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMiscellaneousNotFound
	}
	return s.repo.FindMiscellaneous(ctx, name, strings.TrimSpace(brand))
}

func (s *Service) ListMiscellaneous(ctx context.Context) ([]Miscellaneous, error) {
	return s.repo.ListMiscellaneous(ctx)
}

func (s *Service) DeleteMiscellaneous(ctx context.Context, caller identity.Principal, id string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	if _, err := s.repo.GetMiscellaneous(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteMiscellaneous(ctx, id)
}

// AvailableQuantity reports how many units of an item remain in storage:
// the owned total minus everything out on open loans. The value is computed
// from the loan ledger, never stored.
func (s *Service) AvailableQuantity(ctx context.Context, miscID string) (int, error) {
	item, err := s.repo.GetMiscellaneous(ctx, miscID)
	if err != nil {
		return 0, err
	}
	out, err := s.repo.SumOutstandingLoanQuantity(ctx, miscID)
	if err != nil {
		return 0, err
	}
	return item.Quantity - out, nil
}

// LoanMiscellaneous hands out a quantity of a counted item. The availability
// check and the loan insert run under a per-item lock and one transaction,
// so concurrent loans cannot jointly exceed the stock.
func (s *Service) LoanMiscellaneous(ctx context.Context, caller identity.Principal, miscID, userID string, quantity int) (*MiscellaneousLoan, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	lock := s.itemLock(miscID)
	lock.Lock()
	defer lock.Unlock()

	var result MiscellaneousLoan
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := tx.GetMiscellaneous(ctx, miscID)
		if err != nil {
			return err
		}
		ok, err := tx.UserExists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		out, err := tx.SumOutstandingLoanQuantity(ctx, miscID)
		if err != nil {
			return err
		}
		if item.Quantity-out < quantity {
			return ErrInsufficientQuantity
		}

		id, err := newUUID()
		if err != nil {
			return err
		}

		loan := MiscellaneousLoan{ID: id, MiscellaneousID: miscID, UserID: userID, Quantity: quantity, LoanedAt: time.Now()}
		if err := tx.CreateMiscellaneousLoan(ctx, &loan); err != nil {
			return err
		}
		result = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ReturnMiscellaneous closes one open loan. Returning a loan that is
// already closed is a no-op.
func (s *Service) ReturnMiscellaneous(ctx context.Context, caller identity.Principal, loanID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		loan, err := tx.GetMiscellaneousLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.ReturnedAt != nil {
			return nil
		}
		return tx.CloseMiscellaneousLoan(ctx, loan.ID)
	})
}

func (s *Service) ListMiscellaneousLoansByUser(ctx context.Context, userID string) ([]MiscellaneousLoan, error) {
	return s.repo.ListMiscellaneousLoansByUser(ctx, userID)
}

func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}

	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
