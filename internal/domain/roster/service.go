package roster

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"band-manager-go/internal/domain/identity"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateBand(ctx context.Context, caller identity.Principal, name string) (*Band, error) {
	if err := identity.RequireRole(caller, identity.RoleDirector); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Band
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetBandByName(ctx, name)
		if err == nil {
			return ErrBandNameTaken
		}
		if !errors.Is(err, ErrBandNotFound) {
			return err
		}

		id, err := newUUID()
		if err != nil {
			return err
		}

		band := Band{ID: id, Name: name}
		if err := tx.CreateBand(ctx, &band); err != nil {
			return err
		}
		result = band
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) GetBand(ctx context.Context, id string) (*Band, error) {
	return s.repo.GetBand(ctx, id)
}

func (s *Service) GetBandByName(ctx context.Context, name string) (*Band, error) {
	return s.repo.GetBandByName(ctx, strings.TrimSpace(name))
}

func (s *Service) ListBands(ctx context.Context) ([]Band, error) {
	return s.repo.ListBands(ctx)
}

// AddMemberByEmail adds the adult user holding the email to a band. Adding a
// user who is already on the roster is a no-op.
func (s *Service) AddMemberByEmail(ctx context.Context, caller identity.Principal, email, bandID string) error {
	if err := identity.RequireRole(caller, identity.RoleDirector); err != nil {
		return err
	}

	userID, err := s.repo.FindUserIDByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	return s.addMember(ctx, userID, bandID)
}

// AddMemberByFullName adds a user by full name; the path used for children,
// who have no addressable email.
func (s *Service) AddMemberByFullName(ctx context.Context, caller identity.Principal, fullName, bandID string) error {
	if err := identity.RequireRole(caller, identity.RoleDirector); err != nil {
		return err
	}

	userID, err := s.repo.FindUserIDByFullName(ctx, strings.TrimSpace(fullName))
	if err != nil {
		return err
	}
	return s.addMember(ctx, userID, bandID)
}

func (s *Service) addMember(ctx context.Context, userID, bandID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		band, err := tx.GetBand(ctx, bandID)
		if err != nil {
			return err
		}

		member, err := tx.IsMember(ctx, band.ID, userID)
		if err != nil {
			return err
		}
		if member {
			return nil
		}

		return tx.AddMember(ctx, &Membership{BandID: band.ID, UserID: userID})
	})
}

// RemoveMember removes a user from a band roster. Removing a user who is not
// on the roster is a no-op, matching set semantics.
func (s *Service) RemoveMember(ctx context.Context, caller identity.Principal, userID, bandID string) error {
	if err := identity.RequireRole(caller, identity.RoleDirector); err != nil {
		return err
	}

	if _, err := s.repo.GetBand(ctx, bandID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, bandID, userID)
}

func (s *Service) ListMembers(ctx context.Context, bandID string) ([]Member, error) {
	if _, err := s.repo.GetBand(ctx, bandID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, bandID)
}

func (s *Service) ListBandsByUser(ctx context.Context, userID string) ([]Band, error) {
	return s.repo.ListBandsByUser(ctx, userID)
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
