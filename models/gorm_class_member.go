package models

// ClassMember links an identity to a class roster.
// It corresponds to the 'class_members' table.
type ClassMember struct {
	ID         uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID    uint  `gorm:"not null;uniqueIndex:idx_class_identity" json:"class_id"`
	IdentityID uint  `gorm:"not null;uniqueIndex:idx_class_identity" json:"identity_id"`
	CreatedAt  int64 `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp

	Identity *Identity `gorm:"foreignKey:IdentityID" json:"identity,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (ClassMember) TableName() string {
	return "class_members"
}
