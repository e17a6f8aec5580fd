package models

// Notification severities.
const (
	SeverityInfo    = "INFO"
	SeverityWarning = "WARNING"
)

// Notification is a stored message for an identity, written as a best-effort
// side effect of attendance outcomes. It corresponds to the 'notifications'
// table.
type Notification struct {
	ID         string `gorm:"primaryKey" json:"id"` // UUID
	IdentityID uint   `gorm:"not null;index" json:"identity_id"`
	Title      string `gorm:"not null" json:"title"`
	Message    string `gorm:"not null" json:"message"`
	Severity   string `gorm:"not null;default:'INFO'" json:"severity"`
	IsRead     bool   `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  int64  `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
