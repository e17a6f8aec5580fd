package services

import (
	"errors"
	"fmt"

	"github.com/nivedh-git/attendsysbackend/models"
	"github.com/nivedh-git/attendsysbackend/repository"
	"gorm.io/gorm"
)

// EnrollmentService manages identities, their face templates and class
// roster membership
type EnrollmentService struct {
	identityRepo repository.IdentityRepositoryInterface
	templateRepo repository.TemplateRepositoryInterface
	rosterRepo   repository.RosterRepositoryInterface
	embeddingDim int
}

// NewEnrollmentService creates a new enrollment service. embeddingDim is the
// dimensionality the external extraction model produces; zero disables the
// dimension check.
func NewEnrollmentService(
	identityRepo repository.IdentityRepositoryInterface,
	templateRepo repository.TemplateRepositoryInterface,
	rosterRepo repository.RosterRepositoryInterface,
	embeddingDim int,
) *EnrollmentService {
	return &EnrollmentService{
		identityRepo: identityRepo,
		templateRepo: templateRepo,
		rosterRepo:   rosterRepo,
		embeddingDim: embeddingDim,
	}
}

// CreateIdentity registers a new person eligible for biometric attendance
func (s *EnrollmentService) CreateIdentity(name, role string) (*models.Identity, error) {
	if role != models.RoleStudent && role != models.RoleStaff {
		return nil, fmt.Errorf("unknown identity role %q", role)
	}
	identity := &models.Identity{Name: name, Role: role}
	if err := s.identityRepo.Create(identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// GetIdentity retrieves an identity with its template preloaded
func (s *EnrollmentService) GetIdentity(identityID uint) (*models.Identity, error) {
	identity, err := s.identityRepo.GetByID(identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return identity, nil
}

// ListIdentities returns all identities with the given role
func (s *EnrollmentService) ListIdentities(role string) ([]models.Identity, error) {
	return s.identityRepo.ListByRole(role)
}

// DeleteIdentity removes an identity and its face template
func (s *EnrollmentService) DeleteIdentity(identityID uint) error {
	if err := s.templateRepo.DeleteByIdentityID(identityID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := s.identityRepo.Delete(identityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}
	return nil
}

// RegisterTemplate stores the face template for an identity, replacing any
// previous one atomically. The embedding must be non-empty, carry a non-zero
// norm and, when a dimension is configured, match it exactly.
func (s *EnrollmentService) RegisterTemplate(identityID uint, embedding []float64) error {
	if err := s.validateEmbedding(embedding); err != nil {
		return err
	}

	if _, err := s.identityRepo.GetByID(identityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}

	template := &models.FaceTemplate{IdentityID: identityID}
	template.SetVector(embedding)
	return s.templateRepo.Upsert(template)
}

// AddToClass puts an identity on a class roster
func (s *EnrollmentService) AddToClass(classID, identityID uint) error {
	if _, err := s.identityRepo.GetByID(identityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}
	return s.rosterRepo.AddMember(&models.ClassMember{ClassID: classID, IdentityID: identityID})
}

// RemoveFromClass takes an identity off a class roster
func (s *EnrollmentService) RemoveFromClass(classID, identityID uint) error {
	return s.rosterRepo.RemoveMember(classID, identityID)
}

func (s *EnrollmentService) validateEmbedding(embedding []float64) error {
	if len(embedding) == 0 {
		return fmt.Errorf("%w: embedding is empty", ErrInvalidEmbedding)
	}
	if s.embeddingDim > 0 && len(embedding) != s.embeddingDim {
		return fmt.Errorf("%w: expected %d dimensions, got %d", ErrInvalidEmbedding, s.embeddingDim, len(embedding))
	}
	var norm float64
	for _, v := range embedding {
		norm += v * v
	}
	if norm == 0 {
		return fmt.Errorf("%w: zero vector", ErrInvalidEmbedding)
	}
	return nil
}
