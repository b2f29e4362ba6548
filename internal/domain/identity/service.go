package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new adult member account. The email must be free among
// users without a guardian link.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if input.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if input.FullName == "" {
		return nil, fmt.Errorf("full name is required")
	}
	if input.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var result User
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetUserByEmail(ctx, input.Email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, ErrUserNotFound) {
			return err
		}

		id, err := newUUID()
		if err != nil {
			return err
		}

		user := User{
			ID:           id,
			Email:        input.Email,
			PasswordHash: string(hash),
			FullName:     input.FullName,
			Phone:        strings.TrimSpace(input.Phone),
		}
		if err := tx.CreateUser(ctx, &user); err != nil {
			return err
		}
		if err := tx.AddRole(ctx, user.ID, RoleMember); err != nil {
			return err
		}

		user.Roles = []string{RoleMember}
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Authenticate verifies a password against the effective credential of the
// user holding the email. Only users without a guardian link are looked up;
// guardians authenticate on a child's behalf with their own account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, err
	}

	credential, err := s.EffectiveCredential(ctx, user.ID)
	if err != nil {
		return Principal{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential), []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}

	return Principal{UserID: user.ID, Email: user.Email, Roles: user.Roles}, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// ListChildren returns every user bound to a guardian.
func (s *Service) ListChildren(ctx context.Context) ([]User, error) {
	return s.repo.ListUsersWithGuardians(ctx)
}

func (s *Service) ListChildrenOfParent(ctx context.Context, parentID string) ([]User, error) {
	return s.repo.ListChildrenOfParent(ctx, parentID)
}

func (s *Service) UpdateAccount(ctx context.Context, userID string, input UpdateAccountInput) (*User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.FullName); name != "" {
		user.FullName = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		user.Email = email
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = phone
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LinkChild binds a child to a guardian. The child must not already have one.
// The parent gains the PARENT role and the child the CHILD role.
func (s *Service) LinkChild(ctx context.Context, caller Principal, parentID, childID string) error {
	if err := RequireRole(caller, RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		parent, err := tx.GetUser(ctx, parentID)
		if err != nil {
			return fmt.Errorf("parent: %w", err)
		}
		child, err := tx.GetUser(ctx, childID)
		if err != nil {
			return fmt.Errorf("child: %w", err)
		}

		_, err = tx.GetGuardianLinkByChild(ctx, child.ID)
		if err == nil {
			return ErrGuardianExists
		}
		if !errors.Is(err, ErrGuardianNotFound) {
			return err
		}

		if err := tx.AddRole(ctx, parent.ID, RoleParent); err != nil {
			return err
		}
		if err := tx.AddRole(ctx, child.ID, RoleChild); err != nil {
			return err
		}

		id, err := newUUID()
		if err != nil {
			return err
		}
		return tx.CreateGuardianLink(ctx, &GuardianLink{
			ID:       id,
			ParentID: parent.ID,
			ChildID:  child.ID,
		})
	})
}

// EffectiveEmail returns the guardian's email for a linked child, otherwise
// the user's own.
func (s *Service) EffectiveEmail(ctx context.Context, userID string) (string, error) {
	user, err := s.effectiveUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func (s *Service) EffectivePhone(ctx context.Context, userID string) (string, error) {
	user, err := s.effectiveUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Phone, nil
}

func (s *Service) EffectiveCredential(ctx context.Context, userID string) (string, error) {
	user, err := s.effectiveUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.PasswordHash, nil
}

func (s *Service) effectiveUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	link, err := s.repo.GetGuardianLinkByChild(ctx, user.ID)
	if errors.Is(err, ErrGuardianNotFound) {
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	return s.repo.GetUser(ctx, link.ParentID)
}

func (s *Service) ListCommitteeMembers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsersByRole(ctx, RoleCommitteeMember)
}

func (s *Service) PromoteToCommittee(ctx context.Context, caller Principal, email string) (*User, error) {
	if err := RequireRole(caller, RoleCommitteeMember); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddRole(ctx, user.ID, RoleCommitteeMember); err != nil {
		return nil, err
	}
	if !user.HasRole(RoleCommitteeMember) {
		user.Roles = append(user.Roles, RoleCommitteeMember)
	}
	return user, nil
}

func (s *Service) DemoteFromCommittee(ctx context.Context, caller Principal, userID string) error {
	if err := RequireRole(caller, RoleCommitteeMember); err != nil {
		return err
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.RemoveRole(ctx, user.ID, RoleCommitteeMember)
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
