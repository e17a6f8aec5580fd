package models

// Identity roles. Students are covered by class session attendance,
// staff use the daily self-attendance check-in.
const (
	RoleStudent = "STUDENT"
	RoleStaff   = "STAFF"
)

// Identity represents a person eligible for biometric attendance using GORM.
// It corresponds to the 'identities' table.
type Identity struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Role      string `gorm:"not null;index" json:"role"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp

	// Relationships
	// omitempty will hide these if they are not preloaded or are empty
	Template *FaceTemplate `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE" json:"template,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Identity) TableName() string {
	return "identities"
}
