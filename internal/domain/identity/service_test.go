package identity

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type fakeIdentityRepo struct {
	users    map[string]*User
	roles    map[string]map[string]struct{}
	byChild  map[string]*GuardianLink
	sequence int
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		users:   make(map[string]*User),
		roles:   make(map[string]map[string]struct{}),
		byChild: make(map[string]*GuardianLink),
	}
}

func (r *fakeIdentityRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeIdentityRepo) GetUser(ctx context.Context, id string) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return r.withRoles(user), nil
}

func (r *fakeIdentityRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if user.Email != email {
			continue
		}
		if _, linked := r.byChild[user.ID]; linked {
			continue
		}
		return r.withRoles(user), nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeIdentityRepo) ListUsers(ctx context.Context) ([]User, error) {
	result := make([]User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *r.withRoles(user))
	}
	return result, nil
}

func (r *fakeIdentityRepo) ListUsersWithGuardians(ctx context.Context) ([]User, error) {
	result := make([]User, 0)
	for childID := range r.byChild {
		if user, ok := r.users[childID]; ok {
			result = append(result, *r.withRoles(user))
		}
	}
	return result, nil
}

func (r *fakeIdentityRepo) ListChildrenOfParent(ctx context.Context, parentID string) ([]User, error) {
	result := make([]User, 0)
	for childID, link := range r.byChild {
		if link.ParentID != parentID {
			continue
		}
		if user, ok := r.users[childID]; ok {
			result = append(result, *r.withRoles(user))
		}
	}
	return result, nil
}

func (r *fakeIdentityRepo) ListUsersByRole(ctx context.Context, role string) ([]User, error) {
	result := make([]User, 0)
	for id, roles := range r.roles {
		if _, ok := roles[role]; !ok {
			continue
		}
		if user, found := r.users[id]; found {
			result = append(result, *r.withRoles(user))
		}
	}
	return result, nil
}

func (r *fakeIdentityRepo) CreateUser(ctx context.Context, user *User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeIdentityRepo) UpdateUser(ctx context.Context, user *User) error {
	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeIdentityRepo) AddRole(ctx context.Context, userID, role string) error {
	if r.roles[userID] == nil {
		r.roles[userID] = make(map[string]struct{})
	}
	r.roles[userID][role] = struct{}{}
	return nil
}

func (r *fakeIdentityRepo) RemoveRole(ctx context.Context, userID, role string) error {
	delete(r.roles[userID], role)
	return nil
}

func (r *fakeIdentityRepo) GetGuardianLinkByChild(ctx context.Context, childID string) (*GuardianLink, error) {
	link, ok := r.byChild[childID]
	if !ok {
		return nil, ErrGuardianNotFound
	}
	return link, nil
}

func (r *fakeIdentityRepo) CreateGuardianLink(ctx context.Context, link *GuardianLink) error {
	r.byChild[link.ChildID] = link
	return nil
}

func (r *fakeIdentityRepo) withRoles(user *User) *User {
	copied := *user
	copied.Roles = nil
	for role := range r.roles[user.ID] {
		copied.Roles = append(copied.Roles, role)
	}
	return &copied
}

func (r *fakeIdentityRepo) seedUser(id, email, fullName, phone, password string, roles ...string) *User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &User{ID: id, Email: email, FullName: fullName, Phone: phone, PasswordHash: string(hash)}
	r.users[id] = user
	for _, role := range roles {
		_ = r.AddRole(context.Background(), id, role)
	}
	return user
}

func committee() Principal {
	return Principal{UserID: "committee-1", Roles: []string{RoleMember, RoleCommitteeMember}}
}

func TestRegisterSuccess(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    " Alice@Example.com ",
		Password: "secret",
		FullName: "Alice Adams",
		Phone:    "07000",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if !user.HasRole(RoleMember) {
		t.Fatalf("expected MEMBER role, got %v", user.Roles)
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Fatalf("expected hashed credential")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("u1", "alice@example.com", "Alice Adams", "", "pw", RoleMember)

	svc := NewService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "pw",
		FullName: "Another Alice",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterReusesLinkedChildEmail(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("child-1", "shared@example.com", "Billy", "", "pw", RoleChild)
	repo.byChild["child-1"] = &GuardianLink{ID: "l1", ParentID: "parent-1", ChildID: "child-1"}

	svc := NewService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "shared@example.com",
		Password: "pw",
		FullName: "New Adult",
	})
	if err != nil {
		t.Fatalf("email held only by a linked child should be free, got %v", err)
	}
}

func TestLinkChild(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("parent-1", "parent@example.com", "Pat Parent", "", "pw", RoleMember)
	repo.seedUser("child-1", "", "Billy Parent", "", "pw", RoleMember)

	svc := NewService(repo)
	if err := svc.LinkChild(context.Background(), committee(), "parent-1", "child-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	link := repo.byChild["child-1"]
	if link == nil || link.ParentID != "parent-1" {
		t.Fatalf("expected guardian link, got %+v", link)
	}
	if _, ok := repo.roles["parent-1"][RoleParent]; !ok {
		t.Fatalf("expected PARENT role granted")
	}
	if _, ok := repo.roles["child-1"][RoleChild]; !ok {
		t.Fatalf("expected CHILD role granted")
	}
}

func TestLinkChildAlreadyLinked(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("parent-1", "parent@example.com", "Pat Parent", "", "pw", RoleMember)
	repo.seedUser("parent-2", "other@example.com", "Olga Other", "", "pw", RoleMember)
	repo.seedUser("child-1", "", "Billy Parent", "", "pw", RoleMember)

	svc := NewService(repo)
	if err := svc.LinkChild(context.Background(), committee(), "parent-1", "child-1"); err != nil {
		t.Fatalf("first link failed: %v", err)
	}

	err := svc.LinkChild(context.Background(), committee(), "parent-2", "child-1")
	if !errors.Is(err, ErrGuardianExists) {
		t.Fatalf("expected ErrGuardianExists, got %v", err)
	}
	if repo.byChild["child-1"].ParentID != "parent-1" {
		t.Fatalf("first link must be unaffected")
	}
}

func TestLinkChildRequiresCommitteeRole(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := NewService(repo)

	err := svc.LinkChild(context.Background(), Principal{UserID: "m", Roles: []string{RoleMember}}, "p", "c")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestEffectiveFieldsResolveGuardian(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("parent-1", "parent@example.com", "Pat Parent", "07111", "parentpw", RoleMember, RoleParent)
	repo.seedUser("child-1", "child@example.com", "Billy Parent", "07222", "childpw", RoleMember, RoleChild)
	repo.byChild["child-1"] = &GuardianLink{ID: "l1", ParentID: "parent-1", ChildID: "child-1"}

	svc := NewService(repo)

	email, err := svc.EffectiveEmail(context.Background(), "child-1")
	if err != nil || email != "parent@example.com" {
		t.Fatalf("expected guardian email, got %q err=%v", email, err)
	}
	phone, err := svc.EffectivePhone(context.Background(), "child-1")
	if err != nil || phone != "07111" {
		t.Fatalf("expected guardian phone, got %q err=%v", phone, err)
	}
	credential, err := svc.EffectiveCredential(context.Background(), "child-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(credential), []byte("parentpw")) != nil {
		t.Fatalf("expected guardian credential")
	}
}

func TestEffectiveFieldsOwnValuesWithoutGuardian(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("u1", "solo@example.com", "Solo", "07333", "pw", RoleMember)

	svc := NewService(repo)
	email, err := svc.EffectiveEmail(context.Background(), "u1")
	if err != nil || email != "solo@example.com" {
		t.Fatalf("expected own email, got %q err=%v", email, err)
	}
}

func TestAuthenticateGuardianCredentialForOwnAccount(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("u1", "alice@example.com", "Alice", "", "rightpw", RoleMember)

	svc := NewService(repo)
	principal, err := svc.Authenticate(context.Background(), "alice@example.com", "rightpw")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if principal.UserID != "u1" {
		t.Fatalf("expected principal u1, got %q", principal.UserID)
	}

	if _, err := svc.Authenticate(context.Background(), "alice@example.com", "wrongpw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateSkipsLinkedChildren(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("child-1", "child@example.com", "Billy", "", "pw", RoleChild)
	repo.byChild["child-1"] = &GuardianLink{ID: "l1", ParentID: "parent-1", ChildID: "child-1"}

	svc := NewService(repo)
	_, err := svc.Authenticate(context.Background(), "child@example.com", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("linked children must not authenticate, got %v", err)
	}
}

func TestPromoteAndDemoteCommittee(t *testing.T) {
	repo := newFakeIdentityRepo()
	repo.seedUser("u1", "bob@example.com", "Bob", "", "pw", RoleMember)

	svc := NewService(repo)
	user, err := svc.PromoteToCommittee(context.Background(), committee(), "bob@example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !user.HasRole(RoleCommitteeMember) {
		t.Fatalf("expected COMMITTEE_MEMBER role, got %v", user.Roles)
	}

	if err := svc.DemoteFromCommittee(context.Background(), committee(), "u1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.roles["u1"][RoleCommitteeMember]; ok {
		t.Fatalf("expected role removed")
	}
}
