package repository

import (
	"fmt"
	"time"

	"github.com/nivedh-git/attendsysbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RosterRepository handles database operations for class membership
type RosterRepository struct {
	DB *gorm.DB
}

// Ensure RosterRepository implements RosterRepositoryInterface
var _ RosterRepositoryInterface = (*RosterRepository)(nil)

// NewRosterRepository creates a new instance of RosterRepository
func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{DB: db}
}

// AddMember adds an identity to a class roster; adding twice is a no-op
func (r *RosterRepository) AddMember(member *models.ClassMember) error {
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_id"}, {Name: "identity_id"}},
		DoNothing: true,
	}).Create(member).Error
	if err != nil {
		return fmt.Errorf("failed to add identity %d to class %d: %w", member.IdentityID, member.ClassID, err)
	}
	return nil
}

// RemoveMember removes an identity from a class roster
func (r *RosterRepository) RemoveMember(classID, identityID uint) error {
	result := r.DB.Where("class_id = ? AND identity_id = ?", classID, identityID).Delete(&models.ClassMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove identity %d from class %d: %w", identityID, classID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IdentityIDsByClass returns the identity IDs on a class roster, ordered by
// identity ID for stable iteration
func (r *RosterRepository) IdentityIDsByClass(classID uint) ([]uint, error) {
	var identityIDs []uint
	err := r.DB.Model(&models.ClassMember{}).
		Where("class_id = ?", classID).
		Order("identity_id ASC").
		Pluck("identity_id", &identityIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for class %d: %w", classID, err)
	}
	return identityIDs, nil
}
