package repository

import (
	"github.com/nivedh-git/attendsysbackend/models"
)

// IdentityRepositoryInterface defines the methods for identity data operations
type IdentityRepositoryInterface interface {
	Create(identity *models.Identity) error
	GetByID(id uint) (*models.Identity, error)
	ListByRole(role string) ([]models.Identity, error)
	Delete(id uint) error
}

// TemplateRepositoryInterface defines the methods for face template data operations.
// Upsert replaces any existing template for the identity in one statement, so
// re-registration is atomic and at most one template exists per identity.
type TemplateRepositoryInterface interface {
	Upsert(template *models.FaceTemplate) error
	GetByIdentityID(identityID uint) (*models.FaceTemplate, error)
	GetByIdentityIDs(identityIDs []uint) ([]models.FaceTemplate, error)
	DeleteByIdentityID(identityID uint) error
}

// RosterRepositoryInterface defines the methods for class roster operations
type RosterRepositoryInterface interface {
	AddMember(member *models.ClassMember) error
	RemoveMember(classID, identityID uint) error
	IdentityIDsByClass(classID uint) ([]uint, error)
}

// SessionRepositoryInterface defines the methods for attendance session operations.
// Create reports false when a session for the same (class, subject, date)
// scope already exists.
type SessionRepositoryInterface interface {
	Create(session *models.AttendanceSession) (bool, error)
	GetByID(id uint) (*models.AttendanceSession, error)
	GetByScope(classID, subjectID uint, sessionDate string) (*models.AttendanceSession, error)
}

// AttendanceRepositoryInterface defines the methods for the attendance ledger.
// All writes go through conditional inserts backed by the (session_id,
// identity_id) unique index; callers never do their own check-then-insert.
type AttendanceRepositoryInterface interface {
	InsertIfAbsent(record *models.AttendanceRecord) (bool, error)
	ListBySession(sessionID uint) ([]models.AttendanceRecord, error)
	RecordedIdentityIDs(sessionID uint) ([]uint, error)
	SweepAbsent(sessionID uint, rosterIDs []uint, remarks string) ([]uint, error)
}

// SelfAttendanceRepositoryInterface defines the methods for staff daily check-ins
type SelfAttendanceRepositoryInterface interface {
	InsertIfAbsent(record *models.SelfAttendanceRecord) (bool, error)
	GetByIdentityAndDate(identityID uint, date string) (*models.SelfAttendanceRecord, error)
	ListByDate(date string) ([]models.SelfAttendanceRecord, error)
}

// NotificationRepositoryInterface defines the methods for stored notifications
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	ListByIdentity(identityID uint) ([]models.Notification, error)
	MarkRead(id string) error
}
