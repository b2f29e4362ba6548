package schedule

import (
	"context"
	"errors"

	scheduledomain "band-manager-go/internal/domain/schedule"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(scheduledomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreatePerformance(ctx context.Context, performance *scheduledomain.Performance) error {
	return r.db.WithContext(ctx).Create(performance).Error
}

func (r *PostgresRepository) GetPerformance(ctx context.Context, id string) (*scheduledomain.Performance, error) {
	var performance scheduledomain.Performance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&performance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrPerformanceNotFound
		}
		return nil, err
	}
	return &performance, nil
}

func (r *PostgresRepository) UpdatePerformance(ctx context.Context, performance *scheduledomain.Performance) error {
	return r.db.WithContext(ctx).Save(performance).Error
}

func (r *PostgresRepository) DeletePerformance(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&scheduledomain.Performance{}, "id = ?", id).Error
}

func (r *PostgresRepository) ListPerformances(ctx context.Context) ([]scheduledomain.Performance, error) {
	var performances []scheduledomain.Performance
	if err := r.db.WithContext(ctx).Order("date asc, start_time asc").Find(&performances).Error; err != nil {
		return nil, err
	}
	return performances, nil
}

func (r *PostgresRepository) ListPerformancesByBand(ctx context.Context, bandID string) ([]scheduledomain.Performance, error) {
	var performances []scheduledomain.Performance
	if err := r.db.WithContext(ctx).
		Table("performances").
		Joins("join performance_bands on performance_bands.performance_id = performances.id").
		Where("performance_bands.band_id = ?", bandID).
		Order("performances.date asc, performances.start_time asc").
		Find(&performances).Error; err != nil {
		return nil, err
	}
	return performances, nil
}

func (r *PostgresRepository) BandExists(ctx context.Context, bandID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("bands").Where("id = ?", bandID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) MusicSetExists(ctx context.Context, musicSetID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("music_sets").Where("id = ?", musicSetID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListBandMemberIDs(ctx context.Context, bandID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Table("memberships").
		Select("user_id").
		Where("band_id = ?", bandID).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) LinkBand(ctx context.Context, link *scheduledomain.PerformanceBand) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *PostgresRepository) UnlinkBand(ctx context.Context, performanceID, bandID string) error {
	return r.db.WithContext(ctx).
		Delete(&scheduledomain.PerformanceBand{}, "performance_id = ? AND band_id = ?", performanceID, bandID).Error
}

func (r *PostgresRepository) IsBandLinked(ctx context.Context, performanceID, bandID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&scheduledomain.PerformanceBand{}).
		Where("performance_id = ? AND band_id = ?", performanceID, bandID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListLinkedBandIDs(ctx context.Context, performanceID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&scheduledomain.PerformanceBand{}).
		Select("band_id").
		Where("performance_id = ?", performanceID).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) DeleteBandLinksByPerformance(ctx context.Context, performanceID string) error {
	return r.db.WithContext(ctx).
		Where("performance_id = ?", performanceID).
		Delete(&scheduledomain.PerformanceBand{}).Error
}

func (r *PostgresRepository) LinkMusicSet(ctx context.Context, link *scheduledomain.PerformanceMusicSet) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *PostgresRepository) UnlinkMusicSet(ctx context.Context, performanceID, musicSetID string) error {
	return r.db.WithContext(ctx).
		Delete(&scheduledomain.PerformanceMusicSet{}, "performance_id = ? AND music_set_id = ?", performanceID, musicSetID).Error
}

func (r *PostgresRepository) IsMusicSetLinked(ctx context.Context, performanceID, musicSetID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&scheduledomain.PerformanceMusicSet{}).
		Where("performance_id = ? AND music_set_id = ?", performanceID, musicSetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListLinkedMusicSetIDs(ctx context.Context, performanceID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&scheduledomain.PerformanceMusicSet{}).
		Select("music_set_id").
		Where("performance_id = ?", performanceID).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) DeleteMusicSetLinksByPerformance(ctx context.Context, performanceID string) error {
	return r.db.WithContext(ctx).
		Where("performance_id = ?", performanceID).
		Delete(&scheduledomain.PerformanceMusicSet{}).Error
}

func (r *PostgresRepository) CreateAttendance(ctx context.Context, record *scheduledomain.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) GetAttendance(ctx context.Context, userID, bandID, performanceID string) (*scheduledomain.AttendanceRecord, error) {
	var record scheduledomain.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND band_id = ? AND performance_id = ?", userID, bandID, performanceID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scheduledomain.ErrAttendanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) AttendanceExists(ctx context.Context, userID, bandID, performanceID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&scheduledomain.AttendanceRecord{}).
		Where("user_id = ? AND band_id = ? AND performance_id = ?", userID, bandID, performanceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) SetAttendanceAvailability(ctx context.Context, userID, bandID, performanceID string, available bool) error {
	return r.db.WithContext(ctx).Model(&scheduledomain.AttendanceRecord{}).
		Where("user_id = ? AND band_id = ? AND performance_id = ?", userID, bandID, performanceID).
		Update("available", available).Error
}

func (r *PostgresRepository) ListAttendanceByPerformance(ctx context.Context, performanceID string) ([]scheduledomain.AttendanceRecord, error) {
	var records []scheduledomain.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("performance_id = ?", performanceID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) ListAttendanceByPerformanceAndAvailability(ctx context.Context, performanceID string, available bool) ([]scheduledomain.AttendanceRecord, error) {
	var records []scheduledomain.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("performance_id = ? AND available = ?", performanceID, available).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) DeleteAttendanceByBandAndPerformance(ctx context.Context, bandID, performanceID string) error {
	return r.db.WithContext(ctx).
		Where("band_id = ? AND performance_id = ?", bandID, performanceID).
		Delete(&scheduledomain.AttendanceRecord{}).Error
}

func (r *PostgresRepository) DeleteAttendanceByPerformance(ctx context.Context, performanceID string) error {
	return r.db.WithContext(ctx).
		Where("performance_id = ?", performanceID).
		Delete(&scheduledomain.AttendanceRecord{}).Error
}
