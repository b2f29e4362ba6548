package schedule

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"band-manager-go/internal/domain/identity"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePerformance(ctx context.Context, caller identity.Principal, input CreatePerformanceInput) (*Performance, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	if err := validatePerformanceInput(input.Location, input.StartTime, input.Date.IsZero()); err != nil {
		return nil, err
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	performance := Performance{
		ID:        id,
		Location:  strings.TrimSpace(input.Location),
		Date:      input.Date,
		StartTime: strings.TrimSpace(input.StartTime),
	}
	if err := s.repo.CreatePerformance(ctx, &performance); err != nil {
		return nil, err
	}
	return &performance, nil
}

func (s *Service) UpdatePerformance(ctx context.Context, caller identity.Principal, id string, input UpdatePerformanceInput) (*Performance, error) {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return nil, err
	}
	if err := validatePerformanceInput(input.Location, input.StartTime, input.Date.IsZero()); err != nil {
		return nil, err
	}

	performance, err := s.repo.GetPerformance(ctx, id)
	if err != nil {
		return nil, err
	}

	performance.Location = strings.TrimSpace(input.Location)
	performance.Date = input.Date
	performance.StartTime = strings.TrimSpace(input.StartTime)

	if err := s.repo.UpdatePerformance(ctx, performance); err != nil {
		return nil, err
	}
	return performance, nil
}

func (s *Service) GetPerformance(ctx context.Context, id string) (*Performance, error) {
	return s.repo.GetPerformance(ctx, id)
}

func (s *Service) ListPerformances(ctx context.Context) ([]Performance, error) {
	return s.repo.ListPerformances(ctx)
}

func (s *Service) ListPerformancesByBand(ctx context.Context, bandID string) ([]Performance, error) {
	return s.repo.ListPerformancesByBand(ctx, bandID)
}

// LinkBand associates a band with a performance and seeds one attendance
// record per current band member, defaulted unavailable. Linking an already
// linked band is a no-op on the association, and existing attendance records
// keep their availability.
func (s *Service) LinkBand(ctx context.Context, caller identity.Principal, performanceID, bandID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetPerformance(ctx, performanceID); err != nil {
			return err
		}
		exists, err := tx.BandExists(ctx, bandID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBandNotFound
		}

		linked, err := tx.IsBandLinked(ctx, performanceID, bandID)
		if err != nil {
			return err
		}
		if !linked {
			if err := tx.LinkBand(ctx, &PerformanceBand{PerformanceID: performanceID, BandID: bandID}); err != nil {
				return err
			}
		}

		memberIDs, err := tx.ListBandMemberIDs(ctx, bandID)
		if err != nil {
			return err
		}
		for _, userID := range memberIDs {
			present, err := tx.AttendanceExists(ctx, userID, bandID, performanceID)
			if err != nil {
				return err
			}
			if present {
				continue
			}
			record := AttendanceRecord{
				UserID:        userID,
				BandID:        bandID,
				PerformanceID: performanceID,
				Available:     false,
			}
			if err := tx.CreateAttendance(ctx, &record); err != nil {
				return err
			}
		}
		return nil
	})
}

// UnlinkBand removes the association and deletes every attendance record for
// the (band, performance) pair, whatever its availability.
func (s *Service) UnlinkBand(ctx context.Context, caller identity.Principal, performanceID, bandID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetPerformance(ctx, performanceID); err != nil {
			return err
		}

		linked, err := tx.IsBandLinked(ctx, performanceID, bandID)
		if err != nil {
			return err
		}
		if !linked {
			return nil
		}

		if err := tx.UnlinkBand(ctx, performanceID, bandID); err != nil {
			return err
		}
		return tx.DeleteAttendanceByBandAndPerformance(ctx, bandID, performanceID)
	})
}

func (s *Service) LinkMusicSet(ctx context.Context, caller identity.Principal, performanceID, musicSetID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetPerformance(ctx, performanceID); err != nil {
			return err
		}
		exists, err := tx.MusicSetExists(ctx, musicSetID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrMusicSetNotFound
		}

		linked, err := tx.IsMusicSetLinked(ctx, performanceID, musicSetID)
		if err != nil {
			return err
		}
		if linked {
			return nil
		}
		return tx.LinkMusicSet(ctx, &PerformanceMusicSet{PerformanceID: performanceID, MusicSetID: musicSetID})
	})
}

func (s *Service) UnlinkMusicSet(ctx context.Context, caller identity.Principal, performanceID, musicSetID string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}
	if _, err := s.repo.GetPerformance(ctx, performanceID); err != nil {
		return err
	}
	return s.repo.UnlinkMusicSet(ctx, performanceID, musicSetID)
}

func (s *Service) ListLinkedBandIDs(ctx context.Context, performanceID string) ([]string, error) {
	if _, err := s.repo.GetPerformance(ctx, performanceID); err != nil {
		return nil, err
	}
	return s.repo.ListLinkedBandIDs(ctx, performanceID)
}

func (s *Service) ListLinkedMusicSetIDs(ctx context.Context, performanceID string) ([]string, error) {
	if _, err := s.repo.GetPerformance(ctx, performanceID); err != nil {
		return nil, err
	}
	return s.repo.ListLinkedMusicSetIDs(ctx, performanceID)
}

// SetAvailability updates one attendance record; the record must already
// exist via a linked band.
func (s *Service) SetAvailability(ctx context.Context, userID, bandID, performanceID string, available bool) error {
	exists, err := s.repo.AttendanceExists(ctx, userID, bandID, performanceID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAttendanceNotFound
	}
	return s.repo.SetAttendanceAvailability(ctx, userID, bandID, performanceID, available)
}

func (s *Service) GetAttendance(ctx context.Context, userID, bandID, performanceID string) (*AttendanceRecord, error) {
	return s.repo.GetAttendance(ctx, userID, bandID, performanceID)
}

func (s *Service) ListAttendance(ctx context.Context, performanceID string) ([]AttendanceRecord, error) {
	if _, err := s.repo.GetPerformance(ctx, performanceID); err != nil {
		return nil, err
	}
	return s.repo.ListAttendanceByPerformance(ctx, performanceID)
}

func (s *Service) ListAttendanceByAvailability(ctx context.Context, performanceID string, available bool) ([]AttendanceRecord, error) {
	if _, err := s.repo.GetPerformance(ctx, performanceID); err != nil {
		return nil, err
	}
	return s.repo.ListAttendanceByPerformanceAndAvailability(ctx, performanceID, available)
}

// DeletePerformance removes the performance and, first, everything hanging
// off it: band links, music-set links, attendance records. The order keeps
// no dangling references at any point.
func (s *Service) DeletePerformance(ctx context.Context, caller identity.Principal, id string) error {
	if err := identity.RequireRole(caller, identity.RoleCommitteeMember); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetPerformance(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteBandLinksByPerformance(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteMusicSetLinksByPerformance(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteAttendanceByPerformance(ctx, id); err != nil {
			return err
		}
		return tx.DeletePerformance(ctx, id)
	})
}

func validatePerformanceInput(location, startTime string, dateMissing bool) error {
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("location is required")
	}
	if dateMissing {
		return fmt.Errorf("date is required")
	}
	if strings.TrimSpace(startTime) == "" {
		return fmt.Errorf("time is required")
	}
	return nil
}

func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}

	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
