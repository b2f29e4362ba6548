package schedule

import "errors"

var (
	ErrPerformanceNotFound = errors.New("performance not found")
	ErrBandNotFound        = errors.New("band not found")
	ErrMusicSetNotFound    = errors.New("music set not found")
	ErrAttendanceNotFound  = errors.New("attendance record not found")
)
