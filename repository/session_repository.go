package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/nivedh-git/attendsysbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository handles database operations for AttendanceSession entities
type SessionRepository struct {
	DB *gorm.DB
}

// Ensure SessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface = (*SessionRepository)(nil)

// NewSessionRepository creates a new instance of SessionRepository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create inserts a session unless one already exists for the same
// (class, subject, date) scope. Returns false with no error when the scope
// was already taken, so two concurrent creates cannot both succeed.
func (r *SessionRepository) Create(session *models.AttendanceSession) (bool, error) {
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_id"}, {Name: "subject_id"}, {Name: "session_date"}},
		DoNothing: true,
	}).Create(session)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create session for class %d on %s: %w",
			session.ClassID, session.SessionDate, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetByID retrieves a session by its ID
func (r *SessionRepository) GetByID(id uint) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	err := r.DB.First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session by ID %d: %w", id, err)
	}
	return &session, nil
}

// GetByScope retrieves a session by its (class, subject, date) key
func (r *SessionRepository) GetByScope(classID, subjectID uint, sessionDate string) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	err := r.DB.Where("class_id = ? AND subject_id = ? AND session_date = ?", classID, subjectID, sessionDate).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session for class %d subject %d on %s: %w",
			classID, subjectID, sessionDate, err)
	}
	return &session, nil
}
