package music

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"band-manager-go/internal/domain/identity"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSet(ctx context.Context, caller identity.Principal, input CreateSetInput) (*MusicSet, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	set := MusicSet{
		ID:                  id,
		Title:               input.Title,
		Composer:            strings.TrimSpace(input.Composer),
		Arranger:            strings.TrimSpace(input.Arranger),
		SuitableForTraining: input.SuitableForTraining,
	}
	if err := s.repo.CreateSet(ctx, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (s *Service) GetSet(ctx context.Context, id string) (*MusicSet, error) {
	return s.repo.GetSet(ctx, id)
}

func (s *Service) ListSets(ctx context.Context) ([]MusicSet, error) {
	return s.repo.ListSets(ctx)
}

func (s *Service) ListSetsByBand(ctx context.Context, bandID string) ([]MusicSet, error) {
	exists, err := s.repo.BandExists(ctx, bandID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrBandNotFound
	}
	return s.repo.ListSetsByBand(ctx, bandID)
}

func (s *Service) UpdateSet(ctx context.Context, caller identity.Principal, id string, input UpdateSetInput) (*MusicSet, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	var result MusicSet
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		set, err := tx.GetSet(ctx, id)
		if err != nil {
			return err
		}

		set.Title = input.Title
		set.Composer = strings.TrimSpace(input.Composer)
		set.Arranger = strings.TrimSpace(input.Arranger)
		set.SuitableForTraining = input.SuitableForTraining
		if err := tx.UpdateSet(ctx, set); err != nil {
			return err
		}
		result = *set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSet removes a set together with its parts, band links and notes. The
// parts belong to the set, so they never outlive it.
func (s *Service) DeleteSet(ctx context.Context, caller identity.Principal, id string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetSet(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteSetBandsBySet(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteNotesBySet(ctx, id); err != nil {
			return err
		}
		if err := tx.DeletePartsBySet(ctx, id); err != nil {
			return err
		}
		return tx.DeleteSet(ctx, id)
	})
}

func (s *Service) AddPart(ctx context.Context, caller identity.Principal, setID, partName string) (*MusicPart, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	partName = strings.TrimSpace(partName)
	if partName == "" {
		return nil, fmt.Errorf("part name is required")
	}

	var result MusicPart
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetSet(ctx, setID); err != nil {
			return err
		}

		id, err := newUUID()
		if err != nil {
			return err
		}

		part := MusicPart{ID: id, PartName: partName, MusicSetID: setID}
		if err := tx.CreatePart(ctx, &part); err != nil {
			return err
		}
		result = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListParts(ctx context.Context, setID string) ([]MusicPart, error) {
	if _, err := s.repo.GetSet(ctx, setID); err != nil {
		return nil, err
	}
	return s.repo.ListPartsBySet(ctx, setID)
}

func (s *Service) DeletePart(ctx context.Context, caller identity.Principal, partID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	if _, err := s.repo.GetPart(ctx, partID); err != nil {
		return err
	}
	return s.repo.DeletePart(ctx, partID)
}

// FindSpecificPart locates a part by its name and the title of its set. The
// arranger narrows the search when the same title exists in multiple
// arrangements; left empty it matches any arranger.
func (s *Service) FindSpecificPart(ctx context.Context, partName, setTitle, arranger string) (*MusicPart, error) {
	parts, err := s.repo.FindParts(ctx, strings.TrimSpace(partName), strings.TrimSpace(setTitle), strings.TrimSpace(arranger))
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrPartNotFound
	}
	return &parts[0], nil
}

// AttachBand marks a set as part of a band's repertoire. Sets not flagged
// suitable for training are rejected for the training band. Attaching an
// already linked band is a no-op.
func (s *Service) AttachBand(ctx context.Context, caller identity.Principal, setID, bandID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		set, err := tx.GetSet(ctx, setID)
		if err != nil {
			return err
		}

		ok, err := tx.BandExists(ctx, bandID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBandNotFound
		}

		name, err := tx.BandName(ctx, bandID)
		if err != nil {
			return err
		}
		if name == trainingBandName && !set.SuitableForTraining {
			return ErrNotTrainingSuitable
		}

		linked, err := tx.IsSetLinkedToBand(ctx, setID, bandID)
		if err != nil {
			return err
		}
		if linked {
			return nil
		}
		return tx.LinkSetBand(ctx, setID, bandID)
	})
}

func (s *Service) DetachBand(ctx context.Context, caller identity.Principal, setID, bandID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	if _, err := s.repo.GetSet(ctx, setID); err != nil {
		return err
	}
	return s.repo.UnlinkSetBand(ctx, setID, bandID)
}

// ClearBands drops every band link of a set in one pass.
func (s *Service) ClearBands(ctx context.Context, caller identity.Principal, setID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	if _, err := s.repo.GetSet(ctx, setID); err != nil {
		return err
	}
	return s.repo.DeleteSetBandsBySet(ctx, setID)
}

func (s *Service) ListBandIDs(ctx context.Context, setID string) ([]string, error) {
	if _, err := s.repo.GetSet(ctx, setID); err != nil {
		return nil, err
	}
	return s.repo.ListBandIDsBySet(ctx, setID)
}

func (s *Service) AddNote(ctx context.Context, caller identity.Principal, setID, description string, date time.Time) (*MusicSetNote, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}

	if _, err := s.repo.GetSet(ctx, setID); err != nil {
		return nil, err
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	note := MusicSetNote{ID: id, MusicSetID: setID, Description: description, Date: date}
	if err := s.repo.CreateNote(ctx, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *Service) ListNotes(ctx context.Context, setID string) ([]MusicSetNote, error) {
	if _, err := s.repo.GetSet(ctx, setID); err != nil {
		return nil, err
	}
	return s.repo.ListNotesBySet(ctx, setID)
}

func (s *Service) DeleteNote(ctx context.Context, caller identity.Principal, noteID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}
	return s.repo.DeleteNote(ctx, noteID)
}

// CreateOrder opens a sheet-music order for the caller. Orders start out
// NOT_READY and collect parts until the committee advances them.
func (s *Service) CreateOrder(ctx context.Context, caller identity.Principal, date time.Time) (*MusicOrder, error) {
	return s.createOrder(ctx, caller.UserID, nil, date)
}

// CreateChildOrder opens an order held by the caller on behalf of a child.
func (s *Service) CreateChildOrder(ctx context.Context, caller identity.Principal, childID string, date time.Time) (*MusicOrder, error) {
	return s.createOrder(ctx, caller.UserID, &childID, date)
}

func (s *Service) createOrder(ctx context.Context, ownerID string, childID *string, date time.Time) (*MusicOrder, error) {
	var result MusicOrder
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		ok, err := tx.UserExists(ctx, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		if childID != nil {
			ok, err := tx.UserExists(ctx, *childID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrUserNotFound
			}
		}

		id, err := newUUID()
		if err != nil {
			return err
		}

		order := MusicOrder{ID: id, OwnerID: ownerID, ChildID: childID, Date: date, Status: StatusNotReady}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*MusicOrder, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]MusicOrder, error) {
	return s.repo.ListOrders(ctx)
}

func (s *Service) ListOrdersByOwner(ctx context.Context, ownerID string) ([]MusicOrder, error) {
	return s.repo.ListOrdersByOwner(ctx, ownerID)
}

func (s *Service) ListOrdersByChild(ctx context.Context, childID string) ([]MusicOrder, error) {
	return s.repo.ListOrdersByChild(ctx, childID)
}

func (s *Service) ListOrdersByStatus(ctx context.Context, status string) ([]MusicOrder, error) {
	if _, ok := allowedTransitions[status]; !ok {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListOrdersByStatus(ctx, status)
}

// AddOrderPart puts a part on an order. Adding the same part twice is a
// no-op.
func (s *Service) AddOrderPart(ctx context.Context, orderID, partID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetOrder(ctx, orderID); err != nil {
			return err
		}
		if _, err := tx.GetPart(ctx, partID); err != nil {
			return err
		}

		on, err := tx.IsPartOnOrder(ctx, orderID, partID)
		if err != nil {
			return err
		}
		if on {
			return nil
		}
		return tx.AddOrderPart(ctx, orderID, partID)
	})
}

func (s *Service) ListOrderPartIDs(ctx context.Context, orderID string) ([]string, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListOrderPartIDs(ctx, orderID)
}

// MarkReady advances an order to READY, meaning the music has arrived and
// waits for pickup.
func (s *Service) MarkReady(ctx context.Context, caller identity.Principal, orderID string) error {
	return s.setStatus(ctx, caller, orderID, StatusReady)
}

// MarkFulfilled closes an order; its parts count as owned by the order's
// holder from then on.
func (s *Service) MarkFulfilled(ctx context.Context, caller identity.Principal, orderID string) error {
	return s.setStatus(ctx, caller, orderID, StatusFulfilled)
}

func (s *Service) setStatus(ctx context.Context, caller identity.Principal, orderID, status string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !canTransition(order.Status, status) {
			return ErrInvalidTransition
		}
		return tx.UpdateOrderStatus(ctx, orderID, status)
	})
}

func (s *Service) DeleteOrder(ctx context.Context, caller identity.Principal, orderID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetOrder(ctx, orderID); err != nil {
			return err
		}
		if err := tx.DeleteOrderPartsByOrder(ctx, orderID); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, orderID)
	})
}

// NeededParts lists the parts a user's bands play that the user does not yet
// own: everything reachable through band repertoire minus parts on fulfilled
// orders held for the user.
func (s *Service) NeededParts(ctx context.Context, userID string) ([]MusicPart, error) {
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	parts, err := s.repo.ListPartsForUserBands(ctx, userID)
	if err != nil {
		return nil, err
	}
	ownedIDs, err := s.repo.ListFulfilledPartIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]struct{}, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = struct{}{}
	}

	needed := make([]MusicPart, 0, len(parts))
	for _, p := range parts {
		if _, ok := owned[p.ID]; !ok {
			needed = append(needed, p)
		}
	}
	return needed, nil
}

// OwnedParts lists the parts delivered to a user through fulfilled orders,
// including orders a guardian placed for them.
func (s *Service) OwnedParts(ctx context.Context, userID string) ([]MusicPart, error) {
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	ids, err := s.repo.ListFulfilledPartIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	parts := make([]MusicPart, 0, len(ids))
	for _, id := range ids {
		part, err := s.repo.GetPart(ctx, id)
		if err != nil {
			return nil, err
		}
		parts = append(parts, *part)
	}
	return parts, nil
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
