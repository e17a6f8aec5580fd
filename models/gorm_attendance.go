package models

// DateLayout is the calendar date format used for session and self-attendance keys.
const DateLayout = "2006-01-02"

// Attendance statuses and recording methods.
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"

	MethodFace   = "FACE"
	MethodManual = "MANUAL"
)

// AttendanceSession represents one attendance event for a class, subject and
// calendar date. It corresponds to the 'attendance_sessions' table.
// The composite unique index guarantees at most one session per
// (class, subject, date) scope.
type AttendanceSession struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID     uint   `gorm:"not null;uniqueIndex:idx_session_scope" json:"class_id"`
	SubjectID   uint   `gorm:"not null;uniqueIndex:idx_session_scope" json:"subject_id"`
	SessionDate string `gorm:"not null;uniqueIndex:idx_session_scope" json:"session_date"` // YYYY-MM-DD
	CreatedAt   int64  `gorm:"not null" json:"created_at"`                                 // Stored as INTEGER in SQLite, Unix timestamp

	Records []AttendanceRecord `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"records,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// AttendanceRecord is the outcome of one identity within one session.
// It corresponds to the 'attendance_records' table. The composite unique
// index on (session_id, identity_id) is the central correctness invariant:
// at most one record per identity per session, enforced by the store rather
// than by application-level existence checks.
type AttendanceRecord struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  uint   `gorm:"not null;uniqueIndex:idx_session_identity" json:"session_id"`
	IdentityID uint   `gorm:"not null;uniqueIndex:idx_session_identity" json:"identity_id"`
	Status     string `gorm:"not null" json:"status"`
	Method     string `gorm:"not null" json:"method"`
	Remarks    string `json:"remarks,omitempty"`
	CreatedAt  int64  `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp

	Session  *AttendanceSession `gorm:"foreignKey:SessionID" json:"-"`
	Identity *Identity          `gorm:"foreignKey:IdentityID" json:"identity,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// SelfAttendanceRecord is the outcome of one staff identity on one calendar
// date. It corresponds to the 'self_attendance_records' table; the unique
// index on (identity_id, date) caps it at one record per identity per day.
type SelfAttendanceRecord struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	IdentityID uint   `gorm:"not null;uniqueIndex:idx_identity_date" json:"identity_id"`
	Date       string `gorm:"not null;uniqueIndex:idx_identity_date" json:"date"` // YYYY-MM-DD
	Status     string `gorm:"not null" json:"status"`
	Method     string `gorm:"not null" json:"method"`
	CreatedAt  int64  `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp

	Identity *Identity `gorm:"foreignKey:IdentityID" json:"identity,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (SelfAttendanceRecord) TableName() string {
	return "self_attendance_records"
}
