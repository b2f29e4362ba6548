package roster

import (
	"context"
	"errors"
	"time"

	rosterdomain "band-manager-go/internal/domain/roster"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(rosterdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateBand(ctx context.Context, band *rosterdomain.Band) error {
	return r.db.WithContext(ctx).Create(band).Error
}

func (r *PostgresRepository) GetBand(ctx context.Context, id string) (*rosterdomain.Band, error) {
	var band rosterdomain.Band
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&band).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rosterdomain.ErrBandNotFound
		}
		return nil, err
	}
	return &band, nil
}

func (r *PostgresRepository) GetBandByName(ctx context.Context, name string) (*rosterdomain.Band, error) {
	var band rosterdomain.Band
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&band).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rosterdomain.ErrBandNotFound
		}
		return nil, err
	}
	return &band, nil
}

func (r *PostgresRepository) ListBands(ctx context.Context) ([]rosterdomain.Band, error) {
	var bands []rosterdomain.Band
	if err := r.db.WithContext(ctx).Order("name asc").Find(&bands).Error; err != nil {
		return nil, err
	}
	return bands, nil
}

func (r *PostgresRepository) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id").
		Where("users.email = ?", email).
		Where("users.id NOT IN (?)", r.db.Table("guardian_links").Select("child_id")).
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", rosterdomain.ErrUserNotFound
	}
	return id, nil
}

func (r *PostgresRepository) FindUserIDByFullName(ctx context.Context, fullName string) (string, error) {
	var id string
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id").
		Where("users.full_name = ?", fullName).
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", rosterdomain.ErrUserNotFound
	}
	return id, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *rosterdomain.Membership) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, bandID, userID string) error {
	return r.db.WithContext(ctx).
		Delete(&rosterdomain.Membership{}, "band_id = ? AND user_id = ?", bandID, userID).Error
}

func (r *PostgresRepository) IsMember(ctx context.Context, bandID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&rosterdomain.Membership{}).
		Where("band_id = ? AND user_id = ?", bandID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, bandID string) ([]rosterdomain.Member, error) {
	type memberRow struct {
		UserID   string    `gorm:"column:user_id"`
		FullName string    `gorm:"column:full_name"`
		Email    string    `gorm:"column:email"`
		JoinedAt time.Time `gorm:"column:joined_at"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.user_id, users.full_name, users.email, memberships.joined_at").
		Joins("join users on users.id = memberships.user_id").
		Where("memberships.band_id = ?", bandID).
		Order("users.full_name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]rosterdomain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, rosterdomain.Member{
			UserID:   row.UserID,
			FullName: row.FullName,
			Email:    row.Email,
			JoinedAt: row.JoinedAt,
		})
	}
	return members, nil
}

func (r *PostgresRepository) ListBandsByUser(ctx context.Context, userID string) ([]rosterdomain.Band, error) {
	var bands []rosterdomain.Band
	if err := r.db.WithContext(ctx).
		Table("bands").
		Joins("join memberships on memberships.band_id = bands.id").
		Where("memberships.user_id = ?", userID).
		Order("bands.name asc").
		Find(&bands).Error; err != nil {
		return nil, err
	}
	return bands, nil
}
