package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/nivedh-git/attendsysbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SelfAttendanceRepository handles database operations for staff daily check-ins
type SelfAttendanceRepository struct {
	DB *gorm.DB
}

// Ensure SelfAttendanceRepository implements SelfAttendanceRepositoryInterface
var _ SelfAttendanceRepositoryInterface = (*SelfAttendanceRepository)(nil)

// NewSelfAttendanceRepository creates a new instance of SelfAttendanceRepository
func NewSelfAttendanceRepository(db *gorm.DB) *SelfAttendanceRepository {
	return &SelfAttendanceRepository{DB: db}
}

// InsertIfAbsent inserts a self-attendance record unless one already exists
// for the (identity, date) pair; the unique index closes the same-day race
func (r *SelfAttendanceRepository) InsertIfAbsent(record *models.SelfAttendanceRecord) (bool, error) {
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert self attendance for identity %d on %s: %w",
			record.IdentityID, record.Date, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetByIdentityAndDate retrieves the self-attendance record for an identity
// on a calendar date
func (r *SelfAttendanceRepository) GetByIdentityAndDate(identityID uint, date string) (*models.SelfAttendanceRecord, error) {
	var record models.SelfAttendanceRecord
	err := r.DB.Where("identity_id = ? AND date = ?", identityID, date).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get self attendance for identity %d on %s: %w", identityID, date, err)
	}
	return &record, nil
}

// ListByDate retrieves all self-attendance records for a calendar date
func (r *SelfAttendanceRepository) ListByDate(date string) ([]models.SelfAttendanceRecord, error) {
	var records []models.SelfAttendanceRecord
	err := r.DB.Where("date = ?", date).
		Preload("Identity").
		Order("identity_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list self attendance for %s: %w", date, err)
	}
	return records, nil
}
