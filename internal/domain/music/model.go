package music

import "time"

const (
	StatusNotReady  = "NOT_READY"
	StatusReady     = "READY"
	StatusFulfilled = "FULFILLED"
)

// Order status transitions. No status blocks an advance: the workflow the
// organization runs allows fulfilling an order straight from NOT_READY, so
// the table is deliberately permissive but kept explicit.
var allowedTransitions = map[string][]string{
	StatusNotReady:  {StatusReady, StatusFulfilled},
	StatusReady:     {StatusReady, StatusFulfilled},
	StatusFulfilled: {StatusReady, StatusFulfilled},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// The band reserved for beginners; sets not flagged suitable for training
// cannot be attached to it.
const trainingBandName = "Training"

type MusicSet struct {
	ID                  string    `gorm:"type:uuid;primaryKey"`
	Title               string    `gorm:"not null"`
	Composer            string    `gorm:""`
	Arranger            string    `gorm:""`
	SuitableForTraining bool      `gorm:"not null;default:false"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

// MusicPart is one instrument's part within a set; it lives and dies with
// its set.
type MusicPart struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	PartName   string `gorm:"not null"`
	MusicSetID string `gorm:"type:uuid;not null;index"`
}

type MusicOrder struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	OwnerID   string    `gorm:"type:uuid;not null;index"`
	ChildID   *string   `gorm:"type:uuid;index"`
	Date      time.Time `gorm:"type:date;not null"`
	Status    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type MusicOrderPart struct {
	MusicOrderID string `gorm:"type:uuid;primaryKey"`
	MusicPartID  string `gorm:"type:uuid;primaryKey"`
}

// MusicSetBand links a set to a band whose repertoire includes it.
type MusicSetBand struct {
	MusicSetID string `gorm:"type:uuid;primaryKey"`
	BandID     string `gorm:"type:uuid;primaryKey"`
}

type MusicSetNote struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	MusicSetID  string    `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"not null"`
	Date        time.Time `gorm:"type:date;not null"`
}

type CreateSetInput struct {
	Title               string
	Composer            string
	Arranger            string
	SuitableForTraining bool
}

type UpdateSetInput struct {
	Title               string
	Composer            string
	Arranger            string
	SuitableForTraining bool
}
