package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"band-manager-go/internal/domain/identity"
)

type fakeInventoryRepo struct {
	mu          sync.Mutex
	instruments map[string]*Instrument
	insLoans    map[string]*InstrumentLoan
	notes       map[string]*InstrumentNote
	misc        map[string]*Miscellaneous
	miscLoans   map[string]*MiscellaneousLoan
	users       map[string]struct{}
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		instruments: make(map[string]*Instrument),
		insLoans:    make(map[string]*InstrumentLoan),
		notes:       make(map[string]*InstrumentNote),
		misc:        make(map[string]*Miscellaneous),
		miscLoans:   make(map[string]*MiscellaneousLoan),
		users:       make(map[string]struct{}),
	}
}

func (r *fakeInventoryRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeInventoryRepo) CreateInstrument(ctx context.Context, ins *Instrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instruments[ins.ID] = ins
	return nil
}

func (r *fakeInventoryRepo) GetInstrument(ctx context.Context, id string) (*Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ins, ok := r.instruments[id]
	if !ok {
		return nil, ErrInstrumentNotFound
	}
	return ins, nil
}

func (r *fakeInventoryRepo) GetInstrumentBySerial(ctx context.Context, serial string) (*Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ins := range r.instruments {
		if ins.SerialNumber == serial {
			return ins, nil
		}
	}
	return nil, ErrInstrumentNotFound
}

func (r *fakeInventoryRepo) ListInstruments(ctx context.Context) ([]Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Instrument, 0, len(r.instruments))
	for _, ins := range r.instruments {
		result = append(result, *ins)
	}
	return result, nil
}

func (r *fakeInventoryRepo) ListInstrumentsByLoanState(ctx context.Context, loaned bool) ([]Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	onLoan := make(map[string]struct{})
	for _, loan := range r.insLoans {
		if loan.ReturnedAt == nil {
			onLoan[loan.InstrumentID] = struct{}{}
		}
	}
	result := make([]Instrument, 0, len(r.instruments))
	for _, ins := range r.instruments {
		if _, out := onLoan[ins.ID]; out == loaned {
			result = append(result, *ins)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) UpdateInstrument(ctx context.Context, ins *Instrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instruments[ins.ID] = ins
	return nil
}

func (r *fakeInventoryRepo) DeleteInstrument(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instruments, id)
	return nil
}

func (r *fakeInventoryRepo) CreateInstrumentLoan(ctx context.Context, loan *InstrumentLoan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insLoans[loan.ID] = loan
	return nil
}

func (r *fakeInventoryRepo) GetInstrumentLoan(ctx context.Context, id string) (*InstrumentLoan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.insLoans[id]
	if !ok {
		return nil, ErrLoanNotFound
	}
	return loan, nil
}

func (r *fakeInventoryRepo) GetOutstandingInstrumentLoan(ctx context.Context, instrumentID string) (*InstrumentLoan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, loan := range r.insLoans {
		if loan.InstrumentID == instrumentID && loan.ReturnedAt == nil {
			return loan, nil
		}
	}
	return nil, ErrLoanNotFound
}

func (r *fakeInventoryRepo) ListInstrumentLoansByUser(ctx context.Context, userID string) ([]InstrumentLoan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]InstrumentLoan, 0)
	for _, loan := range r.insLoans {
		if loan.UserID == userID {
			result = append(result, *loan)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) ListInstrumentLoansByUserAndReturned(ctx context.Context, userID string, returned bool) ([]InstrumentLoan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]InstrumentLoan, 0)
	for _, loan := range r.insLoans {
		if loan.UserID == userID && (loan.ReturnedAt != nil) == returned {
			result = append(result, *loan)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) CloseInstrumentLoan(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.insLoans[id]
	if !ok {
		return ErrLoanNotFound
	}
	now := time.Now()
	loan.ReturnedAt = &now
	return nil
}

func (r *fakeInventoryRepo) CreateNote(ctx context.Context, note *InstrumentNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[note.ID] = note
	return nil
}

func (r *fakeInventoryRepo) ListNotesByInstrument(ctx context.Context, instrumentID string) ([]InstrumentNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]InstrumentNote, 0)
	for _, note := range r.notes {
		if note.InstrumentID == instrumentID {
			result = append(result, *note)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) DeleteNote(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notes, id)
	return nil
}

func (r *fakeInventoryRepo) DeleteNotesByInstrument(ctx context.Context, instrumentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, note := range r.notes {
		if note.InstrumentID == instrumentID {
			delete(r.notes, id)
		}
	}
	return nil
}

func (r *fakeInventoryRepo) CreateMiscellaneous(ctx context.Context, item *Miscellaneous) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misc[item.ID] = item
	return nil
}

func (r *fakeInventoryRepo) GetMiscellaneous(ctx context.Context, id string) (*Miscellaneous, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.misc[id]
	if !ok {
		return nil, ErrMiscellaneousNotFound
	}
	return item, nil
}

func (r *fakeInventoryRepo) FindMiscellaneous(ctx context.Context, name, brand string) (*Miscellaneous, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.misc {
		if item.Name != name {
			continue
		}
		if brand != "" && item.Brand != brand {
			continue
		}
		return item, nil
	}
	return nil, ErrMiscellaneousNotFound
}

func (r *fakeInventoryRepo) ListMiscellaneous(ctx context.Context) ([]Miscellaneous, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Miscellaneous, 0, len(r.misc))
	for _, item := range r.misc {
		result = append(result, *item)
	}
	return result, nil
}

func (r *fakeInventoryRepo) UpdateMiscellaneous(ctx context.Context, item *Miscellaneous) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misc[item.ID] = item
	return nil
}

func (r *fakeInventoryRepo) DeleteMiscellaneous(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.misc, id)
	return nil
}

func (r *fakeInventoryRepo) CreateMiscellaneousLoan(ctx context.Context, loan *MiscellaneousLoan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.miscLoans[loan.ID] = loan
	return nil
}

func (r *fakeInventoryRepo) GetMiscellaneousLoan(ctx context.Context, id string) (*MiscellaneousLoan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.miscLoans[id]
	if !ok {
		return nil, ErrLoanNotFound
	}
	return loan, nil
}

func (r *fakeInventoryRepo) ListMiscellaneousLoansByUser(ctx context.Context, userID string) ([]MiscellaneousLoan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]MiscellaneousLoan, 0)
	for _, loan := range r.miscLoans {
		if loan.UserID == userID {
			result = append(result, *loan)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) CloseMiscellaneousLoan(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.miscLoans[id]
	if !ok {
		return ErrLoanNotFound
	}
	now := time.Now()
	loan.ReturnedAt = &now
	return nil
}

func (r *fakeInventoryRepo) SumOutstandingLoanQuantity(ctx context.Context, miscID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, loan := range r.miscLoans {
		if loan.MiscellaneousID == miscID && loan.ReturnedAt == nil {
			total += loan.Quantity
		}
	}
	return total, nil
}

func (r *fakeInventoryRepo) UserExists(ctx context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[userID]
	return ok, nil
}

func committee() identity.Principal {
	return identity.Principal{UserID: "cm-1", Roles: []string{identity.RoleMember, identity.RoleCommitteeMember}}
}

func TestCreateInstrument(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := NewService(repo)

	ins, err := svc.CreateInstrument(context.Background(), committee(), CreateInstrumentInput{Kind: "Trumpet", Brand: "Yamaha", SerialNumber: "Y-1001"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ins.SerialNumber != "Y-1001" {
		t.Fatalf("expected serial kept, got %q", ins.SerialNumber)
	}
}

func TestCreateInstrumentDuplicateSerial(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}

	svc := NewService(repo)
	_, err := svc.CreateInstrument(context.Background(), committee(), CreateInstrumentInput{Kind: "Cornet", SerialNumber: "Y-1001"})
	if !errors.Is(err, ErrSerialTaken) {
		t.Fatalf("expected ErrSerialTaken, got %v", err)
	}
}

func TestCreateInstrumentRequiresCommittee(t *testing.T) {
	svc := NewService(newFakeInventoryRepo())
	_, err := svc.CreateInstrument(context.Background(), identity.Principal{Roles: []string{identity.RoleMember}}, CreateInstrumentInput{Kind: "Trumpet", SerialNumber: "Y-1001"})
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoanInstrument(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}
	repo.users["u1"] = struct{}{}

	svc := NewService(repo)
	loan, err := svc.LoanInstrument(context.Background(), committee(), "i1", "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if loan.ReturnedAt != nil {
		t.Fatalf("expected an open loan")
	}
}

func TestLoanInstrumentAlreadyOut(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}
	repo.users["u1"] = struct{}{}
	repo.users["u2"] = struct{}{}
	repo.insLoans["l1"] = &InstrumentLoan{ID: "l1", InstrumentID: "i1", UserID: "u1", LoanedAt: time.Now()}

	svc := NewService(repo)
	_, err := svc.LoanInstrument(context.Background(), committee(), "i1", "u2")
	if !errors.Is(err, ErrInstrumentOnLoan) {
		t.Fatalf("expected ErrInstrumentOnLoan, got %v", err)
	}
}

func TestReturnInstrumentThenLoanAgain(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}
	repo.users["u1"] = struct{}{}
	repo.users["u2"] = struct{}{}
	repo.insLoans["l1"] = &InstrumentLoan{ID: "l1", InstrumentID: "i1", UserID: "u1", LoanedAt: time.Now()}

	svc := NewService(repo)
	if err := svc.ReturnInstrument(context.Background(), committee(), "i1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.LoanInstrument(context.Background(), committee(), "i1", "u2"); err != nil {
		t.Fatalf("expected instrument loanable after return, got %v", err)
	}
}

func TestReturnInstrumentTwiceIsNoOp(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}
	repo.users["u1"] = struct{}{}
	repo.insLoans["l1"] = &InstrumentLoan{ID: "l1", InstrumentID: "i1", UserID: "u1", LoanedAt: time.Now()}

	svc := NewService(repo)
	for i := 0; i < 2; i++ {
		if err := svc.ReturnInstrument(context.Background(), committee(), "i1"); err != nil {
			t.Fatalf("return %d: expected no error, got %v", i, err)
		}
	}
}

func TestAvailableQuantity(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Quantity: 10}
	repo.users["u1"] = struct{}{}
	repo.miscLoans["l1"] = &MiscellaneousLoan{ID: "l1", MiscellaneousID: "m1", UserID: "u1", Quantity: 6, LoanedAt: time.Now()}

	svc := NewService(repo)
	avail, err := svc.AvailableQuantity(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if avail != 4 {
		t.Fatalf("expected 4 available, got %d", avail)
	}
}

func TestLoanMiscellaneousInsufficient(t *testing.T) {
	// Stock of 10 with 6 out leaves 4; a request for 5 must fail.
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Quantity: 10}
	repo.users["u1"] = struct{}{}
	repo.users["u2"] = struct{}{}
	repo.miscLoans["l1"] = &MiscellaneousLoan{ID: "l1", MiscellaneousID: "m1", UserID: "u1", Quantity: 6, LoanedAt: time.Now()}

	svc := NewService(repo)
	_, err := svc.LoanMiscellaneous(context.Background(), committee(), "m1", "u2", 5)
	if !errors.Is(err, ErrInsufficientQuantity) {
		t.Fatalf("expected ErrInsufficientQuantity, got %v", err)
	}
}

func TestLoanMiscellaneousExactRemainder(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Quantity: 10}
	repo.users["u1"] = struct{}{}
	repo.users["u2"] = struct{}{}
	repo.miscLoans["l1"] = &MiscellaneousLoan{ID: "l1", MiscellaneousID: "m1", UserID: "u1", Quantity: 6, LoanedAt: time.Now()}

	svc := NewService(repo)
	if _, err := svc.LoanMiscellaneous(context.Background(), committee(), "m1", "u2", 4); err != nil {
		t.Fatalf("expected loan of the exact remainder to work, got %v", err)
	}

	avail, err := svc.AvailableQuantity(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if avail != 0 {
		t.Fatalf("expected nothing left, got %d", avail)
	}
}

func TestLoanMiscellaneousInvalidQuantity(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Quantity: 10}
	repo.users["u1"] = struct{}{}

	svc := NewService(repo)
	for _, qty := range []int{0, -3} {
		if _, err := svc.LoanMiscellaneous(context.Background(), committee(), "m1", "u1", qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestConcurrentLoansNeverOversell(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Quantity: 10}
	for _, u := range []string{"u1", "u2", "u3", "u4", "u5"} {
		repo.users[u] = struct{}{}
	}

	svc := NewService(repo)
	var wg sync.WaitGroup
	for _, u := range []string{"u1", "u2", "u3", "u4", "u5"} {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			// Each asks for 3 of 10; at most three can succeed.
			_, _ = svc.LoanMiscellaneous(context.Background(), committee(), "m1", userID, 3)
		}(u)
	}
	wg.Wait()

	out := 0
	for _, loan := range repo.miscLoans {
		if loan.ReturnedAt == nil {
			out += loan.Quantity
		}
	}
	if out > 10 {
		t.Fatalf("oversold: %d units out of a stock of 10", out)
	}
}

func TestReturnMiscellaneousTwiceIsNoOp(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Quantity: 10}
	repo.users["u1"] = struct{}{}
	repo.miscLoans["l1"] = &MiscellaneousLoan{ID: "l1", MiscellaneousID: "m1", UserID: "u1", Quantity: 6, LoanedAt: time.Now()}

	svc := NewService(repo)
	for i := 0; i < 2; i++ {
		if err := svc.ReturnMiscellaneous(context.Background(), committee(), "l1"); err != nil {
			t.Fatalf("return %d: expected no error, got %v", i, err)
		}
	}

	avail, err := svc.AvailableQuantity(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if avail != 10 {
		t.Fatalf("expected full stock back, got %d", avail)
	}
}

func TestCreateMiscellaneousForInstrument(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}

	svc := NewService(repo)
	insID := "i1"
	item, err := svc.CreateMiscellaneous(context.Background(), committee(), CreateMiscellaneousInput{Name: "Straight mute", Quantity: 1, SpecificForInstrument: &insID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.SpecificForInstrument == nil || *item.SpecificForInstrument != "i1" {
		t.Fatalf("expected instrument binding kept")
	}
}

func TestCreateMiscellaneousUnknownInstrument(t *testing.T) {
	svc := NewService(newFakeInventoryRepo())
	insID := "missing"
	_, err := svc.CreateMiscellaneous(context.Background(), committee(), CreateMiscellaneousInput{Name: "Straight mute", Quantity: 1, SpecificForInstrument: &insID})
	if !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("expected ErrInstrumentNotFound, got %v", err)
	}
}

func TestFindMiscellaneousByBrand(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Brand: "Vandoren", Quantity: 10}
	repo.misc["m2"] = &Miscellaneous{ID: "m2", Name: "Reeds", Brand: "Rico", Quantity: 5}

	svc := NewService(repo)
	item, err := svc.FindMiscellaneous(context.Background(), "Reeds", "Rico")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.ID != "m2" {
		t.Fatalf("expected m2, got %s", item.ID)
	}

	if _, err := svc.FindMiscellaneous(context.Background(), "Reeds", "Legere"); !errors.Is(err, ErrMiscellaneousNotFound) {
		t.Fatalf("expected ErrMiscellaneousNotFound, got %v", err)
	}
}

func TestListInstrumentsByLoanState(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}
	repo.instruments["i2"] = &Instrument{ID: "i2", Kind: "Cornet", SerialNumber: "Y-1002"}
	repo.users["u1"] = struct{}{}
	repo.insLoans["l1"] = &InstrumentLoan{ID: "l1", InstrumentID: "i1", UserID: "u1", LoanedAt: time.Now()}

	svc := NewService(repo)
	out, err := svc.ListInstrumentsByLoanState(context.Background(), true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 1 || out[0].ID != "i1" {
		t.Fatalf("expected only i1 on loan, got %v", out)
	}

	in, err := svc.ListInstrumentsByLoanState(context.Background(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(in) != 1 || in[0].ID != "i2" {
		t.Fatalf("expected only i2 in storage, got %v", in)
	}
}

func TestUpdateInstrument(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}

	svc := NewService(repo)
	ins, err := svc.UpdateInstrument(context.Background(), committee(), "i1", CreateInstrumentInput{Kind: "Cornet", Brand: "Besson", SerialNumber: "B-2001"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ins.Kind != "Cornet" || ins.Brand != "Besson" || ins.SerialNumber != "B-2001" {
		t.Fatalf("expected updated fields, got %+v", ins)
	}
}

func TestUpdateInstrumentSerialTaken(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}
	repo.instruments["i2"] = &Instrument{ID: "i2", Kind: "Cornet", SerialNumber: "Y-1002"}

	svc := NewService(repo)
	_, err := svc.UpdateInstrument(context.Background(), committee(), "i1", CreateInstrumentInput{Kind: "Trumpet", SerialNumber: "Y-1002"})
	if !errors.Is(err, ErrSerialTaken) {
		t.Fatalf("expected ErrSerialTaken, got %v", err)
	}
}

func TestUpdateInstrumentRequiresCommittee(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}

	svc := NewService(repo)
	_, err := svc.UpdateInstrument(context.Background(), identity.Principal{Roles: []string{identity.RoleMember}}, "i1", CreateInstrumentInput{Kind: "Trumpet", SerialNumber: "Y-1001"})
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdateMiscellaneous(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Quantity: 10}

	svc := NewService(repo)
	item, err := svc.UpdateMiscellaneous(context.Background(), committee(), "m1", CreateMiscellaneousInput{Name: "Reeds", Brand: "Rico", Quantity: 12})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Brand != "Rico" || item.Quantity != 12 {
		t.Fatalf("expected updated fields, got %+v", item)
	}
}

func TestUpdateMiscellaneousBelowOutstanding(t *testing.T) {
	// 6 out on loan; stock cannot be set to 5.
	repo := newFakeInventoryRepo()
	repo.misc["m1"] = &Miscellaneous{ID: "m1", Name: "Reeds", Quantity: 10}
	repo.users["u1"] = struct{}{}
	repo.miscLoans["l1"] = &MiscellaneousLoan{ID: "l1", MiscellaneousID: "m1", UserID: "u1", Quantity: 6, LoanedAt: time.Now()}

	svc := NewService(repo)
	_, err := svc.UpdateMiscellaneous(context.Background(), committee(), "m1", CreateMiscellaneousInput{Name: "Reeds", Quantity: 5})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestReturnInstrumentLoanByID(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.instruments["i1"] = &Instrument{ID: "i1", Kind: "Trumpet", SerialNumber: "Y-1001"}
	repo.users["u1"] = struct{}{}
	repo.insLoans["l1"] = &InstrumentLoan{ID: "l1", InstrumentID: "i1", UserID: "u1", LoanedAt: time.Now()}

	svc := NewService(repo)
	for i := 0; i < 2; i++ {
		if err := svc.ReturnInstrumentLoan(context.Background(), committee(), "l1"); err != nil {
			t.Fatalf("attempt %d: expected no error, got %v", i, err)
		}
	}
	if repo.insLoans["l1"].ReturnedAt == nil {
		t.Fatalf("expected the loan closed")
	}

	if err := svc.ReturnInstrumentLoan(context.Background(), committee(), "missing"); !errors.Is(err, ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestListInstrumentLoansByReturnedFlag(t *testing.T) {
	repo := newFakeInventoryRepo()
	returned := time.Now()
	repo.insLoans["l1"] = &InstrumentLoan{ID: "l1", InstrumentID: "i1", UserID: "u1", LoanedAt: time.Now()}
	repo.insLoans["l2"] = &InstrumentLoan{ID: "l2", InstrumentID: "i2", UserID: "u1", LoanedAt: time.Now(), ReturnedAt: &returned}
	repo.insLoans["l3"] = &InstrumentLoan{ID: "l3", InstrumentID: "i3", UserID: "u2", LoanedAt: time.Now()}

	svc := NewService(repo)
	open, err := svc.ListInstrumentLoansByUserAndReturned(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(open) != 1 || open[0].ID != "l1" {
		t.Fatalf("expected only l1 open for u1, got %v", open)
	}

	closed, err := svc.ListInstrumentLoansByUserAndReturned(context.Background(), "u1", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(closed) != 1 || closed[0].ID != "l2" {
		t.Fatalf("expected only l2 returned for u1, got %v", closed)
	}
}
