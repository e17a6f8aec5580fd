package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/nivedh-git/attendsysbackend/models"
	"gorm.io/gorm"
)

// IdentityRepository handles database operations for Identity entities
type IdentityRepository struct {
	DB *gorm.DB
}

// Ensure IdentityRepository implements IdentityRepositoryInterface
var _ IdentityRepositoryInterface = (*IdentityRepository)(nil)

// NewIdentityRepository creates a new instance of IdentityRepository
func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{DB: db}
}

// Create creates a new identity record in the database
func (r *IdentityRepository) Create(identity *models.Identity) error {
	if identity.CreatedAt == 0 {
		identity.CreatedAt = time.Now().Unix()
	}

	err := r.DB.Create(identity).Error
	if err != nil {
		return fmt.Errorf("failed to create identity %s: %w", identity.Name, err)
	}
	return nil
}

// GetByID retrieves an identity by its ID, preloading its face template
func (r *IdentityRepository) GetByID(id uint) (*models.Identity, error) {
	var identity models.Identity
	err := r.DB.Preload("Template").First(&identity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get identity by ID %d: %w", id, err)
	}
	return &identity, nil
}

// ListByRole retrieves all identities with the given role, ordered by name
func (r *IdentityRepository) ListByRole(role string) ([]models.Identity, error) {
	var identities []models.Identity
	err := r.DB.Where("role = ?", role).Order("name ASC").Find(&identities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list identities with role %s: %w", role, err)
	}
	return identities, nil
}

// Delete removes an identity by its ID
func (r *IdentityRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Identity{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete identity ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
