package roster

import "time"

type Band struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Membership is the user/band link table; one row per pair.
type Membership struct {
	BandID   string    `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"type:uuid;primaryKey"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

// Member is a roster row joined with the user's identity fields.
type Member struct {
	UserID   string
	FullName string
	Email    string
	JoinedAt time.Time
}
