package repository

import (
	"fmt"
	"time"

	"github.com/nivedh-git/attendsysbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceRepository handles database operations for the attendance ledger
type AttendanceRepository struct {
	DB *gorm.DB
}

// Ensure AttendanceRepository implements AttendanceRepositoryInterface
var _ AttendanceRepositoryInterface = (*AttendanceRepository)(nil)

// NewAttendanceRepository creates a new instance of AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// InsertIfAbsent inserts an attendance record unless one already exists for
// the (session, identity) pair. The unique index resolves the race between
// two concurrent submissions for the same identity; exactly one caller sees
// inserted == true.
func (r *AttendanceRepository) InsertIfAbsent(record *models.AttendanceRecord) (bool, error) {
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "identity_id"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert attendance record for session %d identity %d: %w",
			record.SessionID, record.IdentityID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListBySession retrieves all records for a session, preloading identities,
// ordered by identity ID
func (r *AttendanceRepository) ListBySession(sessionID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.DB.Where("session_id = ?", sessionID).
		Preload("Identity").
		Order("identity_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records for session %d: %w", sessionID, err)
	}
	return records, nil
}

// RecordedIdentityIDs returns the identity IDs that already have a record in
// the session
func (r *AttendanceRepository) RecordedIdentityIDs(sessionID uint) ([]uint, error) {
	var identityIDs []uint
	err := r.DB.Model(&models.AttendanceRecord{}).
		Where("session_id = ?", sessionID).
		Pluck("identity_id", &identityIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recorded identities for session %d: %w", sessionID, err)
	}
	return identityIDs, nil
}

// SweepAbsent writes an ABSENT record for every roster identity that has no
// record in the session yet, in one transaction so the uncovered set is
// computed from a consistent snapshot. A PRESENT insert committing
// concurrently is either visible to the snapshot or rejected by the unique
// index; existing records are never touched. Returns the identity IDs that
// were newly marked absent.
func (r *AttendanceRepository) SweepAbsent(sessionID uint, rosterIDs []uint, remarks string) ([]uint, error) {
	if len(rosterIDs) == 0 {
		return nil, nil
	}

	var absentees []uint
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var recorded []uint
		if err := tx.Model(&models.AttendanceRecord{}).
			Where("session_id = ?", sessionID).
			Pluck("identity_id", &recorded).Error; err != nil {
			return fmt.Errorf("failed to snapshot recorded identities for session %d: %w", sessionID, err)
		}

		covered := make(map[uint]bool, len(recorded))
		for _, id := range recorded {
			covered[id] = true
		}

		now := time.Now().Unix()
		var missing []models.AttendanceRecord
		for _, identityID := range rosterIDs {
			if covered[identityID] {
				continue
			}
			missing = append(missing, models.AttendanceRecord{
				SessionID:  sessionID,
				IdentityID: identityID,
				Status:     models.StatusAbsent,
				Method:     models.MethodManual,
				Remarks:    remarks,
				CreatedAt:  now,
			})
			absentees = append(absentees, identityID)
		}
		if len(missing) == 0 {
			return nil
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "identity_id"}},
			DoNothing: true,
		}).Create(&missing).Error; err != nil {
			return fmt.Errorf("failed to insert absentee records for session %d: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return absentees, nil
}
