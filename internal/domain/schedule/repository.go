package schedule

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreatePerformance(ctx context.Context, performance *Performance) error
	GetPerformance(ctx context.Context, id string) (*Performance, error)
	UpdatePerformance(ctx context.Context, performance *Performance) error
	DeletePerformance(ctx context.Context, id string) error
	ListPerformances(ctx context.Context) ([]Performance, error)
	ListPerformancesByBand(ctx context.Context, bandID string) ([]Performance, error)

	BandExists(ctx context.Context, bandID string) (bool, error)
	MusicSetExists(ctx context.Context, musicSetID string) (bool, error)
	// ListBandMemberIDs reads the roster at association time.
	ListBandMemberIDs(ctx context.Context, bandID string) ([]string, error)

	LinkBand(ctx context.Context, link *PerformanceBand) error
	UnlinkBand(ctx context.Context, performanceID, bandID string) error
	IsBandLinked(ctx context.Context, performanceID, bandID string) (bool, error)
	ListLinkedBandIDs(ctx context.Context, performanceID string) ([]string, error)
	DeleteBandLinksByPerformance(ctx context.Context, performanceID string) error

	LinkMusicSet(ctx context.Context, link *PerformanceMusicSet) error
	UnlinkMusicSet(ctx context.Context, performanceID, musicSetID string) error
	IsMusicSetLinked(ctx context.Context, performanceID, musicSetID string) (bool, error)
	ListLinkedMusicSetIDs(ctx context.Context, performanceID string) ([]string, error)
	DeleteMusicSetLinksByPerformance(ctx context.Context, performanceID string) error

	CreateAttendance(ctx context.Context, record *AttendanceRecord) error
	GetAttendance(ctx context.Context, userID, bandID, performanceID string) (*AttendanceRecord, error)
	AttendanceExists(ctx context.Context, userID, bandID, performanceID string) (bool, error)
	SetAttendanceAvailability(ctx context.Context, userID, bandID, performanceID string, available bool) error
	ListAttendanceByPerformance(ctx context.Context, performanceID string) ([]AttendanceRecord, error)
	ListAttendanceByPerformanceAndAvailability(ctx context.Context, performanceID string, available bool) ([]AttendanceRecord, error)
	DeleteAttendanceByBandAndPerformance(ctx context.Context, bandID, performanceID string) error
	DeleteAttendanceByPerformance(ctx context.Context, performanceID string) error
}
