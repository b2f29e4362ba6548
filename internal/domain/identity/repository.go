package identity

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetUser(ctx context.Context, id string) (*User, error)
	// GetUserByEmail resolves only users without a guardian link; minors are
	// never addressable by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListUsersWithGuardians(ctx context.Context) ([]User, error)
	ListChildrenOfParent(ctx context.Context, parentID string) ([]User, error)
	ListUsersByRole(ctx context.Context, role string) ([]User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	AddRole(ctx context.Context, userID, role string) error
	RemoveRole(ctx context.Context, userID, role string) error
	GetGuardianLinkByChild(ctx context.Context, childID string) (*GuardianLink, error)
	CreateGuardianLink(ctx context.Context, link *GuardianLink) error
}
