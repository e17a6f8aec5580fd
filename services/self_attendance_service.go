package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nivedh-git/attendsysbackend/models"
	"github.com/nivedh-git/attendsysbackend/repository"
	"gorm.io/gorm"
)

// SelfMarkStatus is the outcome of a staff daily check-in attempt
type SelfMarkStatus string

const (
	SelfMarked        SelfMarkStatus = "MARKED"
	SelfAlreadyMarked SelfMarkStatus = "ALREADY_MARKED"
	SelfNotMatched    SelfMarkStatus = "NOT_MATCHED"
	SelfNotEnrolled   SelfMarkStatus = "NOT_ENROLLED"
)

// SelfAttendanceService handles the single-identity daily check-in used by
// staff: the probe is compared against the caller's own template only.
type SelfAttendanceService struct {
	templateRepo repository.TemplateRepositoryInterface
	selfRepo     repository.SelfAttendanceRepositoryInterface
	matcher      *Matcher
	notifier     Notifier
}

// NewSelfAttendanceService creates a new self-attendance service
func NewSelfAttendanceService(
	templateRepo repository.TemplateRepositoryInterface,
	selfRepo repository.SelfAttendanceRepositoryInterface,
	matcher *Matcher,
	notifier Notifier,
) *SelfAttendanceService {
	return &SelfAttendanceService{
		templateRepo: templateRepo,
		selfRepo:     selfRepo,
		matcher:      matcher,
		notifier:     notifier,
	}
}

// MarkSelf records today's check-in for an identity. An existing record for
// the day short-circuits before any vector comparison. The write is a
// conditional insert on (identity, date), so a race between two same-day
// attempts still produces exactly one record.
func (s *SelfAttendanceService) MarkSelf(identityID uint, probe []float64, today time.Time) (SelfMarkStatus, error) {
	if len(probe) == 0 {
		return "", fmt.Errorf("%w: probe is empty", ErrInvalidEmbedding)
	}

	template, err := s.templateRepo.GetByIdentityID(identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SelfNotEnrolled, nil
		}
		return "", err
	}

	date := today.Format(models.DateLayout)
	if _, err := s.selfRepo.GetByIdentityAndDate(identityID, date); err == nil {
		return SelfAlreadyMarked, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	match := s.matcher.Match(probe, []TemplateCandidate{
		{IdentityID: identityID, Vector: template.Vector()},
	})
	if !match.Matched {
		return SelfNotMatched, nil
	}

	inserted, err := s.selfRepo.InsertIfAbsent(&models.SelfAttendanceRecord{
		IdentityID: identityID,
		Date:       date,
		Status:     models.StatusPresent,
		Method:     models.MethodFace,
	})
	if err != nil {
		return "", err
	}
	if !inserted {
		return SelfAlreadyMarked, nil
	}

	if err := s.notifier.Notify(identityID, "Check-in recorded",
		fmt.Sprintf("Your attendance for %s was recorded.", date),
		models.SeverityInfo); err != nil {
		log.Printf("Warning: failed to notify identity %d for self check-in: %v", identityID, err)
	}
	return SelfMarked, nil
}

// ListForDate returns all self-attendance records for a calendar date
func (s *SelfAttendanceService) ListForDate(date string) ([]models.SelfAttendanceRecord, error) {
	return s.selfRepo.ListByDate(date)
}
