package roster

import (
	"context"
	"errors"
	"testing"

	"band-manager-go/internal/domain/identity"
)

type fakeRosterRepo struct {
	bands       map[string]*Band
	memberships map[string]map[string]struct{}
	emails      map[string]string
	fullNames   map[string]string
}

func newFakeRosterRepo() *fakeRosterRepo {
	return &fakeRosterRepo{
		bands:       make(map[string]*Band),
		memberships: make(map[string]map[string]struct{}),
		emails:      make(map[string]string),
		fullNames:   make(map[string]string),
	}
}

func (r *fakeRosterRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRosterRepo) CreateBand(ctx context.Context, band *Band) error {
	r.bands[band.ID] = band
	return nil
}

func (r *fakeRosterRepo) GetBand(ctx context.Context, id string) (*Band, error) {
	band, ok := r.bands[id]
	if !ok {
		return nil, ErrBandNotFound
	}
	return band, nil
}

func (r *fakeRosterRepo) GetBandByName(ctx context.Context, name string) (*Band, error) {
	for _, band := range r.bands {
		if band.Name == name {
			return band, nil
		}
	}
	return nil, ErrBandNotFound
}

func (r *fakeRosterRepo) ListBands(ctx context.Context) ([]Band, error) {
	result := make([]Band, 0, len(r.bands))
	for _, band := range r.bands {
		result = append(result, *band)
	}
	return result, nil
}

func (r *fakeRosterRepo) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	id, ok := r.emails[email]
	if !ok {
		return "", ErrUserNotFound
	}
	return id, nil
}

func (r *fakeRosterRepo) FindUserIDByFullName(ctx context.Context, fullName string) (string, error) {
	id, ok := r.fullNames[fullName]
	if !ok {
		return "", ErrUserNotFound
	}
	return id, nil
}

func (r *fakeRosterRepo) AddMember(ctx context.Context, member *Membership) error {
	if r.memberships[member.BandID] == nil {
		r.memberships[member.BandID] = make(map[string]struct{})
	}
	r.memberships[member.BandID][member.UserID] = struct{}{}
	return nil
}

func (r *fakeRosterRepo) RemoveMember(ctx context.Context, bandID, userID string) error {
	delete(r.memberships[bandID], userID)
	return nil
}

func (r *fakeRosterRepo) IsMember(ctx context.Context, bandID, userID string) (bool, error) {
	_, ok := r.memberships[bandID][userID]
	return ok, nil
}

func (r *fakeRosterRepo) ListMembers(ctx context.Context, bandID string) ([]Member, error) {
	result := make([]Member, 0)
	for userID := range r.memberships[bandID] {
		result = append(result, Member{UserID: userID})
	}
	return result, nil
}

func (r *fakeRosterRepo) ListBandsByUser(ctx context.Context, userID string) ([]Band, error) {
	result := make([]Band, 0)
	for bandID, users := range r.memberships {
		if _, ok := users[userID]; ok {
			result = append(result, *r.bands[bandID])
		}
	}
	return result, nil
}

func director() identity.Principal {
	return identity.Principal{UserID: "director-1", Roles: []string{identity.RoleMember, identity.RoleDirector}}
}

func TestCreateBand(t *testing.T) {
	repo := newFakeRosterRepo()
	svc := NewService(repo)

	band, err := svc.CreateBand(context.Background(), director(), "  Senior  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if band.Name != "Senior" {
		t.Fatalf("expected trimmed name, got %q", band.Name)
	}
}

func TestCreateBandDuplicateName(t *testing.T) {
	repo := newFakeRosterRepo()
	repo.bands["b1"] = &Band{ID: "b1", Name: "Senior"}

	svc := NewService(repo)
	_, err := svc.CreateBand(context.Background(), director(), "Senior")
	if !errors.Is(err, ErrBandNameTaken) {
		t.Fatalf("expected ErrBandNameTaken, got %v", err)
	}
}

func TestCreateBandRequiresDirector(t *testing.T) {
	svc := NewService(newFakeRosterRepo())
	_, err := svc.CreateBand(context.Background(), identity.Principal{Roles: []string{identity.RoleMember}}, "Senior")
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAddMemberByEmail(t *testing.T) {
	repo := newFakeRosterRepo()
	repo.bands["b1"] = &Band{ID: "b1", Name: "Senior"}
	repo.emails["alice@example.com"] = "u1"

	svc := NewService(repo)
	if err := svc.AddMemberByEmail(context.Background(), director(), "alice@example.com", "b1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.memberships["b1"]["u1"]; !ok {
		t.Fatalf("expected membership created")
	}
}

func TestAddMemberIdempotent(t *testing.T) {
	repo := newFakeRosterRepo()
	repo.bands["b1"] = &Band{ID: "b1", Name: "Senior"}
	repo.emails["alice@example.com"] = "u1"

	svc := NewService(repo)
	for i := 0; i < 2; i++ {
		if err := svc.AddMemberByEmail(context.Background(), director(), "alice@example.com", "b1"); err != nil {
			t.Fatalf("attempt %d: expected no error, got %v", i, err)
		}
	}
	if len(repo.memberships["b1"]) != 1 {
		t.Fatalf("expected a single membership, got %d", len(repo.memberships["b1"]))
	}
}

func TestAddMemberByFullName(t *testing.T) {
	repo := newFakeRosterRepo()
	repo.bands["b1"] = &Band{ID: "b1", Name: "Training"}
	repo.fullNames["Billy Parent"] = "child-1"

	svc := NewService(repo)
	if err := svc.AddMemberByFullName(context.Background(), director(), "Billy Parent", "b1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.memberships["b1"]["child-1"]; !ok {
		t.Fatalf("expected membership created")
	}
}

func TestAddMemberUnknownUser(t *testing.T) {
	repo := newFakeRosterRepo()
	repo.bands["b1"] = &Band{ID: "b1", Name: "Senior"}

	svc := NewService(repo)
	err := svc.AddMemberByEmail(context.Background(), director(), "nobody@example.com", "b1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	repo := newFakeRosterRepo()
	repo.bands["b1"] = &Band{ID: "b1", Name: "Senior"}
	repo.memberships["b1"] = map[string]struct{}{"u1": {}}

	svc := NewService(repo)
	if err := svc.RemoveMember(context.Background(), director(), "u1", "b1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.memberships["b1"]["u1"]; ok {
		t.Fatalf("expected membership removed")
	}
}

func TestRemoveMemberUnknownBand(t *testing.T) {
	svc := NewService(newFakeRosterRepo())
	err := svc.RemoveMember(context.Background(), director(), "u1", "missing")
	if !errors.Is(err, ErrBandNotFound) {
		t.Fatalf("expected ErrBandNotFound, got %v", err)
	}
}
