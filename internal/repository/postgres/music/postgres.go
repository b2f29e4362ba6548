package music

import (
	"context"
	"errors"

	musicdomain "band-manager-go/internal/domain/music"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(musicdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateSet(ctx context.Context, set *musicdomain.MusicSet) error {
	return r.db.WithContext(ctx).Create(set).Error
}

func (r *PostgresRepository) GetSet(ctx context.Context, id string) (*musicdomain.MusicSet, error) {
	var set musicdomain.MusicSet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, musicdomain.ErrSetNotFound
		}
		return nil, err
	}
	return &set, nil
}

func (r *PostgresRepository) ListSets(ctx context.Context) ([]musicdomain.MusicSet, error) {
	var sets []musicdomain.MusicSet
	if err := r.db.WithContext(ctx).Order("title asc").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *PostgresRepository) ListSetsByBand(ctx context.Context, bandID string) ([]musicdomain.MusicSet, error) {
	var sets []musicdomain.MusicSet
	if err := r.db.WithContext(ctx).
		Table("music_sets").
		Joins("join music_set_bands on music_set_bands.music_set_id = music_sets.id").
		Where("music_set_bands.band_id = ?", bandID).
		Order("music_sets.title asc").
		Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *PostgresRepository) UpdateSet(ctx context.Context, set *musicdomain.MusicSet) error {
	return r.db.WithContext(ctx).Save(set).Error
}

func (r *PostgresRepository) DeleteSet(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&musicdomain.MusicSet{}, "id = ?", id).Error
}

func (r *PostgresRepository) CreatePart(ctx context.Context, part *musicdomain.MusicPart) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *PostgresRepository) GetPart(ctx context.Context, id string) (*musicdomain.MusicPart, error) {
	var part musicdomain.MusicPart
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, musicdomain.ErrPartNotFound
		}
		return nil, err
	}
	return &part, nil
}

func (r *PostgresRepository) ListPartsBySet(ctx context.Context, setID string) ([]musicdomain.MusicPart, error) {
	var parts []musicdomain.MusicPart
	if err := r.db.WithContext(ctx).
		Where("music_set_id = ?", setID).
		Order("part_name asc").
		Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *PostgresRepository) DeletePart(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&musicdomain.MusicPart{}, "id = ?", id).Error
}

func (r *PostgresRepository) DeletePartsBySet(ctx context.Context, setID string) error {
	return r.db.WithContext(ctx).Where("music_set_id = ?", setID).Delete(&musicdomain.MusicPart{}).Error
}

func (r *PostgresRepository) FindParts(ctx context.Context, partName, setTitle, arranger string) ([]musicdomain.MusicPart, error) {
	query := r.db.WithContext(ctx).
		Table("music_parts").
		Select("music_parts.*").
		Joins("join music_sets on music_sets.id = music_parts.music_set_id").
		Where("music_parts.part_name = ?", partName).
		Where("music_sets.title = ?", setTitle)
	if arranger != "" {
		query = query.Where("music_sets.arranger = ?", arranger)
	}

	var parts []musicdomain.MusicPart
	if err := query.Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *PostgresRepository) BandExists(ctx context.Context, bandID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("bands").Where("id = ?", bandID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) BandName(ctx context.Context, bandID string) (string, error) {
	var name string
	err := r.db.WithContext(ctx).
		Table("bands").
		Select("name").
		Where("id = ?", bandID).
		Limit(1).
		Scan(&name).Error
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", musicdomain.ErrBandNotFound
	}
	return name, nil
}

func (r *PostgresRepository) LinkSetBand(ctx context.Context, setID, bandID string) error {
	return r.db.WithContext(ctx).Create(&musicdomain.MusicSetBand{MusicSetID: setID, BandID: bandID}).Error
}

func (r *PostgresRepository) UnlinkSetBand(ctx context.Context, setID, bandID string) error {
	return r.db.WithContext(ctx).
		Delete(&musicdomain.MusicSetBand{}, "music_set_id = ? AND band_id = ?", setID, bandID).Error
}

func (r *PostgresRepository) IsSetLinkedToBand(ctx context.Context, setID, bandID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&musicdomain.MusicSetBand{}).
		Where("music_set_id = ? AND band_id = ?", setID, bandID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListBandIDsBySet(ctx context.Context, setID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&musicdomain.MusicSetBand{}).
		Select("band_id").
		Where("music_set_id = ?", setID).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) DeleteSetBandsBySet(ctx context.Context, setID string) error {
	return r.db.WithContext(ctx).Where("music_set_id = ?", setID).Delete(&musicdomain.MusicSetBand{}).Error
}

func (r *PostgresRepository) CreateNote(ctx context.Context, note *musicdomain.MusicSetNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *PostgresRepository) ListNotesBySet(ctx context.Context, setID string) ([]musicdomain.MusicSetNote, error) {
	var notes []musicdomain.MusicSetNote
	if err := r.db.WithContext(ctx).
		Where("music_set_id = ?", setID).
		Order("date desc").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *PostgresRepository) DeleteNote(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&musicdomain.MusicSetNote{}, "id = ?", id).Error
}

func (r *PostgresRepository) DeleteNotesBySet(ctx context.Context, setID string) error {
	return r.db.WithContext(ctx).Where("music_set_id = ?", setID).Delete(&musicdomain.MusicSetNote{}).Error
}

func (r *PostgresRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("users").Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *musicdomain.MusicOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*musicdomain.MusicOrder, error) {
	var order musicdomain.MusicOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, musicdomain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]musicdomain.MusicOrder, error) {
	var orders []musicdomain.MusicOrder
	if err := r.db.WithContext(ctx).Order("date desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) ListOrdersByOwner(ctx context.Context, ownerID string) ([]musicdomain.MusicOrder, error) {
	var orders []musicdomain.MusicOrder
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) ListOrdersByChild(ctx context.Context, childID string) ([]musicdomain.MusicOrder, error) {
	var orders []musicdomain.MusicOrder
	if err := r.db.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("date desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) ListOrdersByStatus(ctx context.Context, status string) ([]musicdomain.MusicOrder, error) {
	var orders []musicdomain.MusicOrder
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("date desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&musicdomain.MusicOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *PostgresRepository) DeleteOrder(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&musicdomain.MusicOrder{}, "id = ?", id).Error
}

func (r *PostgresRepository) AddOrderPart(ctx context.Context, orderID, partID string) error {
	return r.db.WithContext(ctx).Create(&musicdomain.MusicOrderPart{MusicOrderID: orderID, MusicPartID: partID}).Error
}

func (r *PostgresRepository) IsPartOnOrder(ctx context.Context, orderID, partID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&musicdomain.MusicOrderPart{}).
		Where("music_order_id = ? AND music_part_id = ?", orderID, partID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListOrderPartIDs(ctx context.Context, orderID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&musicdomain.MusicOrderPart{}).
		Select("music_part_id").
		Where("music_order_id = ?", orderID).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) DeleteOrderPartsByOrder(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Where("music_order_id = ?", orderID).Delete(&musicdomain.MusicOrderPart{}).Error
}

func (r *PostgresRepository) ListPartsForUserBands(ctx context.Context, userID string) ([]musicdomain.MusicPart, error) {
	var parts []musicdomain.MusicPart
	if err := r.db.WithContext(ctx).
		Table("music_parts").
		Select("distinct music_parts.*").
		Joins("join music_set_bands on music_set_bands.music_set_id = music_parts.music_set_id").
		Joins("join memberships on memberships.band_id = music_set_bands.band_id").
		Where("memberships.user_id = ?", userID).
		Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *PostgresRepository) ListFulfilledPartIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Table("music_order_parts").
		Select("music_order_parts.music_part_id").
		Joins("join music_orders on music_orders.id = music_order_parts.music_order_id").
		Where("music_orders.status = ?", musicdomain.StatusFulfilled).
		Where("music_orders.child_id = ? OR (music_orders.child_id IS NULL AND music_orders.owner_id = ?)", userID, userID).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
