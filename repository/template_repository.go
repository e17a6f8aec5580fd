package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/nivedh-git/attendsysbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TemplateRepository handles database operations for FaceTemplate entities
type TemplateRepository struct {
	DB *gorm.DB
}

// Ensure TemplateRepository implements TemplateRepositoryInterface
var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)

// NewTemplateRepository creates a new instance of TemplateRepository
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

// Upsert creates or replaces the face template for an identity in a single
// statement. The unique index on identity_id turns a re-registration into an
// update, so there is never more than one template per identity.
func (r *TemplateRepository) Upsert(template *models.FaceTemplate) error {
	if template.RegisteredAt == 0 {
		template.RegisteredAt = time.Now().Unix()
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding_data", "embedding_model", "registered_at"}),
	}).Create(template).Error
	if err != nil {
		return fmt.Errorf("failed to upsert face template for identity %d: %w", template.IdentityID, err)
	}
	return nil
}

// GetByIdentityID retrieves the face template for an identity
func (r *TemplateRepository) GetByIdentityID(identityID uint) (*models.FaceTemplate, error) {
	var template models.FaceTemplate
	err := r.DB.Where("identity_id = ?", identityID).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get face template for identity %d: %w", identityID, err)
	}
	return &template, nil
}

// GetByIdentityIDs retrieves the face templates for a batch of identities.
// Identities without a template are simply not present in the result.
func (r *TemplateRepository) GetByIdentityIDs(identityIDs []uint) ([]models.FaceTemplate, error) {
	if len(identityIDs) == 0 {
		return nil, nil
	}

	var templates []models.FaceTemplate
	err := r.DB.Where("identity_id IN ?", identityIDs).Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get face templates for %d identities: %w", len(identityIDs), err)
	}
	return templates, nil
}

// DeleteByIdentityID removes the face template for an identity
func (r *TemplateRepository) DeleteByIdentityID(identityID uint) error {
	result := r.DB.Where("identity_id = ?", identityID).Delete(&models.FaceTemplate{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete face template for identity %d: %w", identityID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
