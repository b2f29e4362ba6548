package inventory

import (
	"context"
	"errors"
	"time"

	inventorydomain "band-manager-go/internal/domain/inventory"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(inventorydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateInstrument(ctx context.Context, ins *inventorydomain.Instrument) error {
	return r.db.WithContext(ctx).Create(ins).Error
}

func (r *PostgresRepository) GetInstrument(ctx context.Context, id string) (*inventorydomain.Instrument, error) {
	var ins inventorydomain.Instrument
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ins).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrInstrumentNotFound
		}
		return nil, err
	}
	return &ins, nil
}

func (r *PostgresRepository) GetInstrumentBySerial(ctx context.Context, serial string) (*inventorydomain.Instrument, error) {
	var ins inventorydomain.Instrument
	if err := r.db.WithContext(ctx).Where("serial_number = ?", serial).First(&ins).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrInstrumentNotFound
		}
		return nil, err
	}
	return &ins, nil
}

func (r *PostgresRepository) ListInstruments(ctx context.Context) ([]inventorydomain.Instrument, error) {
	var instruments []inventorydomain.Instrument
	if err := r.db.WithContext(ctx).Order("kind asc, serial_number asc").Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

func (r *PostgresRepository) ListInstrumentsByLoanState(ctx context.Context, loaned bool) ([]inventorydomain.Instrument, error) {
	outstanding := r.db.Table("instrument_loans").
		Select("instrument_id").
		Where("returned_at IS NULL")

	query := r.db.WithContext(ctx).Order("kind asc, serial_number asc")
	if loaned {
		query = query.Where("id IN (?)", outstanding)
	} else {
		query = query.Where("id NOT IN (?)", outstanding)
	}

	var instruments []inventorydomain.Instrument
	if err := query.Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

func (r *PostgresRepository) UpdateInstrument(ctx context.Context, ins *inventorydomain.Instrument) error {
	return r.db.WithContext(ctx).Save(ins).Error
}

func (r *PostgresRepository) DeleteInstrument(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&inventorydomain.Instrument{}, "id = ?", id).Error
}

func (r *PostgresRepository) CreateInstrumentLoan(ctx context.Context, loan *inventorydomain.InstrumentLoan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *PostgresRepository) GetInstrumentLoan(ctx context.Context, id string) (*inventorydomain.InstrumentLoan, error) {
	var loan inventorydomain.InstrumentLoan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

func (r *PostgresRepository) GetOutstandingInstrumentLoan(ctx context.Context, instrumentID string) (*inventorydomain.InstrumentLoan, error) {
	var loan inventorydomain.InstrumentLoan
	err := r.db.WithContext(ctx).
		Where("instrument_id = ? AND returned_at IS NULL", instrumentID).
		First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, inventorydomain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *PostgresRepository) ListInstrumentLoansByUser(ctx context.Context, userID string) ([]inventorydomain.InstrumentLoan, error) {
	var loans []inventorydomain.InstrumentLoan
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("loaned_at desc").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *PostgresRepository) ListInstrumentLoansByUserAndReturned(ctx context.Context, userID string, returned bool) ([]inventorydomain.InstrumentLoan, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if returned {
		query = query.Where("returned_at IS NOT NULL")
	} else {
		query = query.Where("returned_at IS NULL")
	}

	var loans []inventorydomain.InstrumentLoan
	if err := query.Order("loaned_at desc").Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *PostgresRepository) CloseInstrumentLoan(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&inventorydomain.InstrumentLoan{}).
		Where("id = ?", id).
		Update("returned_at", time.Now()).Error
}

func (r *PostgresRepository) CreateNote(ctx context.Context, note *inventorydomain.InstrumentNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *PostgresRepository) ListNotesByInstrument(ctx context.Context, instrumentID string) ([]inventorydomain.InstrumentNote, error) {
	var notes []inventorydomain.InstrumentNote
	if err := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order("date desc").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *PostgresRepository) DeleteNote(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&inventorydomain.InstrumentNote{}, "id = ?", id).Error
}

func (r *PostgresRepository) DeleteNotesByInstrument(ctx context.Context, instrumentID string) error {
	return r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Delete(&inventorydomain.InstrumentNote{}).Error
}

func (r *PostgresRepository) CreateMiscellaneous(ctx context.Context, item *inventorydomain.Miscellaneous) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) GetMiscellaneous(ctx context.Context, id string) (*inventorydomain.Miscellaneous, error) {
	var item inventorydomain.Miscellaneous
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrMiscellaneousNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) FindMiscellaneous(ctx context.Context, name, brand string) (*inventorydomain.Miscellaneous, error) {
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if brand != "" {
		query = query.Where("brand = ?", brand)
	}

	var item inventorydomain.Miscellaneous
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrMiscellaneousNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ListMiscellaneous(ctx context.Context) ([]inventorydomain.Miscellaneous, error) {
	var items []inventorydomain.Miscellaneous
	if err := r.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) UpdateMiscellaneous(ctx context.Context, item *inventorydomain.Miscellaneous) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PostgresRepository) DeleteMiscellaneous(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&inventorydomain.Miscellaneous{}, "id = ?", id).Error
}

func (r *PostgresRepository) CreateMiscellaneousLoan(ctx context.Context, loan *inventorydomain.MiscellaneousLoan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *PostgresRepository) GetMiscellaneousLoan(ctx context.Context, id string) (*inventorydomain.MiscellaneousLoan, error) {
	var loan inventorydomain.MiscellaneousLoan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

func (r *PostgresRepository) ListMiscellaneousLoansByUser(ctx context.Context, userID string) ([]inventorydomain.MiscellaneousLoan, error) {
	var loans []inventorydomain.MiscellaneousLoan
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("loaned_at desc").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *PostgresRepository) CloseMiscellaneousLoan(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&inventorydomain.MiscellaneousLoan{}).
		Where("id = ?", id).
		Update("returned_at", time.Now()).Error
}

func (r *PostgresRepository) SumOutstandingLoanQuantity(ctx context.Context, miscID string) (int, error) {
	var total *int
	if err := r.db.WithContext(ctx).
		Model(&inventorydomain.MiscellaneousLoan{}).
		Select("sum(quantity)").
		Where("miscellaneous_id = ? AND returned_at IS NULL", miscID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *PostgresRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("users").Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
