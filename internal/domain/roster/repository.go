package roster

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateBand(ctx context.Context, band *Band) error
	GetBand(ctx context.Context, id string) (*Band, error)
	GetBandByName(ctx context.Context, name string) (*Band, error)
	ListBands(ctx context.Context) ([]Band, error)
	// FindUserIDByEmail resolves only users without a guardian link.
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
	FindUserIDByFullName(ctx context.Context, fullName string) (string, error)
	AddMember(ctx context.Context, member *Membership) error
	RemoveMember(ctx context.Context, bandID, userID string) error
	IsMember(ctx context.Context, bandID, userID string) (bool, error)
	ListMembers(ctx context.Context, bandID string) ([]Member, error)
	ListBandsByUser(ctx context.Context, userID string) ([]Band, error)
}
