package schedule

import "time"

type Performance struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Location  string    `gorm:"not null"`
	Date      time.Time `gorm:"type:date;not null"`
	StartTime string    `gorm:"type:time;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// PerformanceBand links a band to a performance it plays at.
type PerformanceBand struct {
	PerformanceID string `gorm:"type:uuid;primaryKey"`
	BandID        string `gorm:"type:uuid;primaryKey"`
}

// PerformanceMusicSet links a music set to a performance programme.
type PerformanceMusicSet struct {
	PerformanceID string `gorm:"type:uuid;primaryKey"`
	MusicSetID    string `gorm:"type:uuid;primaryKey"`
}

// AttendanceRecord is one member's availability for one performance, scoped
// to the band through which they attend. It exists only while that band is
// linked to the performance.
type AttendanceRecord struct {
	UserID        string    `gorm:"type:uuid;primaryKey"`
	BandID        string    `gorm:"type:uuid;primaryKey"`
	PerformanceID string    `gorm:"type:uuid;primaryKey"`
	Available     bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

type CreatePerformanceInput struct {
	Location  string
	Date      time.Time
	StartTime string
}

type UpdatePerformanceInput struct {
	Location  string
	Date      time.Time
	StartTime string
}
