package music

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateSet(ctx context.Context, set *MusicSet) error
	GetSet(ctx context.Context, id string) (*MusicSet, error)
	ListSets(ctx context.Context) ([]MusicSet, error)
	ListSetsByBand(ctx context.Context, bandID string) ([]MusicSet, error)
	UpdateSet(ctx context.Context, set *MusicSet) error
	DeleteSet(ctx context.Context, id string) error

	CreatePart(ctx context.Context, part *MusicPart) error
	GetPart(ctx context.Context, id string) (*MusicPart, error)
	ListPartsBySet(ctx context.Context, setID string) ([]MusicPart, error)
	DeletePart(ctx context.Context, id string) error
	DeletePartsBySet(ctx context.Context, setID string) error
	// FindParts matches by part name and set title; an empty arranger
	// matches sets by any arranger.
	FindParts(ctx context.Context, partName, setTitle, arranger string) ([]MusicPart, error)

	BandExists(ctx context.Context, bandID string) (bool, error)
	BandName(ctx context.Context, bandID string) (string, error)
	LinkSetBand(ctx context.Context, setID, bandID string) error
	UnlinkSetBand(ctx context.Context, setID, bandID string) error
	IsSetLinkedToBand(ctx context.Context, setID, bandID string) (bool, error)
	ListBandIDsBySet(ctx context.Context, setID string) ([]string, error)
	DeleteSetBandsBySet(ctx context.Context, setID string) error

	CreateNote(ctx context.Context, note *MusicSetNote) error
	ListNotesBySet(ctx context.Context, setID string) ([]MusicSetNote, error)
	DeleteNote(ctx context.Context, id string) error
	DeleteNotesBySet(ctx context.Context, setID string) error

	UserExists(ctx context.Context, userID string) (bool, error)
	CreateOrder(ctx context.Context, order *MusicOrder) error
	GetOrder(ctx context.Context, id string) (*MusicOrder, error)
	ListOrders(ctx context.Context) ([]MusicOrder, error)
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]MusicOrder, error)
	ListOrdersByChild(ctx context.Context, childID string) ([]MusicOrder, error)
	ListOrdersByStatus(ctx context.Context, status string) ([]MusicOrder, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	DeleteOrder(ctx context.Context, id string) error
	AddOrderPart(ctx context.Context, orderID, partID string) error
	IsPartOnOrder(ctx context.Context, orderID, partID string) (bool, error)
	ListOrderPartIDs(ctx context.Context, orderID string) ([]string, error)
	DeleteOrderPartsByOrder(ctx context.Context, orderID string) error

	// ListPartsForUserBands returns every part of every set linked to a
	// band the user is a member of.
	ListPartsForUserBands(ctx context.Context, userID string) ([]MusicPart, error)
	// ListFulfilledPartIDsForUser returns the IDs of parts on FULFILLED
	// orders owned by the user or placed for the user as a child.
	ListFulfilledPartIDsForUser(ctx context.Context, userID string) ([]string, error)
}
