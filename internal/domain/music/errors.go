package music

import "errors"

var (
	ErrSetNotFound         = errors.New("music set not found")
	ErrPartNotFound        = errors.New("music part not found")
	ErrOrderNotFound       = errors.New("music order not found")
	ErrNoteNotFound        = errors.New("music set note not found")
	ErrBandNotFound        = errors.New("band not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotTrainingSuitable = errors.New("music set is not suitable for training")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrInvalidStatus       = errors.New("unknown order status")
)
