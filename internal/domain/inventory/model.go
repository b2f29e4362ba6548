package inventory

import "time"

type Instrument struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Kind         string    `gorm:"not null"`
	Brand        string    `gorm:""`
	SerialNumber string    `gorm:"not null;uniqueIndex"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// InstrumentLoan records one user holding one instrument. A loan with a nil
// ReturnedAt is outstanding; at most one outstanding loan exists per
// instrument.
type InstrumentLoan struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	InstrumentID string     `gorm:"type:uuid;not null;index"`
	UserID       string     `gorm:"type:uuid;not null;index"`
	LoanedAt     time.Time  `gorm:"not null"`
	ReturnedAt   *time.Time `gorm:""`
}

type InstrumentNote struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	InstrumentID string    `gorm:"type:uuid;not null;index"`
	Description  string    `gorm:"not null"`
	Date         time.Time `gorm:"type:date;not null"`
}

// Miscellaneous is a counted stock item: mutes, stands, reeds. It may be
// bound to a particular instrument, in which case it only makes sense loaned
// alongside it.
type Miscellaneous struct {
	ID                    string    `gorm:"type:uuid;primaryKey"`
	Name                  string    `gorm:"not null"`
	Brand                 string    `gorm:""`
	Quantity              int       `gorm:"not null"`
	SpecificForInstrument *string   `gorm:"type:uuid;index"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}

func (Miscellaneous) TableName() string { return "miscellaneous" }

type MiscellaneousLoan struct {
	ID              string     `gorm:"type:uuid;primaryKey"`
	MiscellaneousID string     `gorm:"type:uuid;not null;index"`
	UserID          string     `gorm:"type:uuid;not null;index"`
	Quantity        int        `gorm:"not null"`
	LoanedAt        time.Time  `gorm:"not null"`
	ReturnedAt      *time.Time `gorm:""`
}

type CreateInstrumentInput struct {
	Kind         string
	Brand        string
	SerialNumber string
}

type CreateMiscellaneousInput struct {
	Name                  string
	Brand                 string
	Quantity              int
	SpecificForInstrument *string
}
