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

// ProbeResult is the outcome of one probe submission against a session
type ProbeResult struct {
	Matched         bool    `json:"matched"`
	IdentityID      uint    `json:"identity_id,omitempty"`
	Distance        float64 `json:"distance,omitempty"`
	AlreadyRecorded bool    `json:"already_recorded,omitempty"`
}

// FinalizeResult reports how many roster identities a finalize sweep marked absent
type FinalizeResult struct {
	AbsentCount int `json:"absent_count"`
}

// SessionAttendanceService orchestrates probe matching and session
// finalization for class attendance sessions
type SessionAttendanceService struct {
	sessionRepo    repository.SessionRepositoryInterface
	rosterRepo     repository.RosterRepositoryInterface
	templateRepo   repository.TemplateRepositoryInterface
	attendanceRepo repository.AttendanceRepositoryInterface
	matcher        *Matcher
	notifier       Notifier
}

// NewSessionAttendanceService creates a new session attendance service
func NewSessionAttendanceService(
	sessionRepo repository.SessionRepositoryInterface,
	rosterRepo repository.RosterRepositoryInterface,
	templateRepo repository.TemplateRepositoryInterface,
	attendanceRepo repository.AttendanceRepositoryInterface,
	matcher *Matcher,
	notifier Notifier,
) *SessionAttendanceService {
	return &SessionAttendanceService{
		sessionRepo:    sessionRepo,
		rosterRepo:     rosterRepo,
		templateRepo:   templateRepo,
		attendanceRepo: attendanceRepo,
		matcher:        matcher,
		notifier:       notifier,
	}
}

// CreateSession opens the attendance session for a (class, subject, date)
// scope. At most one session exists per scope; a second create fails with
// ErrDuplicateSession.
func (s *SessionAttendanceService) CreateSession(classID, subjectID uint, sessionDate time.Time) (*models.AttendanceSession, error) {
	session := &models.AttendanceSession{
		ClassID:     classID,
		SubjectID:   subjectID,
		SessionDate: sessionDate.Format(models.DateLayout),
	}
	created, err := s.sessionRepo.Create(session)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrDuplicateSession
	}
	return session, nil
}

// SubmitProbe identifies a probe embedding against the session's roster and
// records a PRESENT outcome for the matched identity. Roster members without
// a template are left out of the comparison set. The write is a conditional
// insert, so resubmitting a matching probe reports the match again without a
// second record or a second notification.
func (s *SessionAttendanceService) SubmitProbe(sessionID uint, probe []float64) (*ProbeResult, error) {
	if len(probe) == 0 {
		return nil, fmt.Errorf("%w: probe is empty", ErrInvalidEmbedding)
	}

	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	rosterIDs, err := s.rosterRepo.IdentityIDsByClass(session.ClassID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.loadCandidates(rosterIDs)
	if err != nil {
		return nil, err
	}

	match := s.matcher.Match(probe, candidates)
	if !match.Matched {
		return &ProbeResult{Matched: false}, nil
	}

	inserted, err := s.attendanceRepo.InsertIfAbsent(&models.AttendanceRecord{
		SessionID:  sessionID,
		IdentityID: match.IdentityID,
		Status:     models.StatusPresent,
		Method:     models.MethodFace,
	})
	if err != nil {
		return nil, err
	}

	if inserted {
		if err := s.notifier.Notify(match.IdentityID, "Attendance recorded",
			fmt.Sprintf("You were marked present on %s.", session.SessionDate),
			models.SeverityInfo); err != nil {
			log.Printf("Warning: failed to notify identity %d for session %d: %v", match.IdentityID, sessionID, err)
		}
	}

	return &ProbeResult{
		Matched:         true,
		IdentityID:      match.IdentityID,
		Distance:        match.Distance,
		AlreadyRecorded: !inserted,
	}, nil
}

// Finalize closes out a session by marking every roster identity without a
// record as ABSENT. The sweep runs in one transaction over a consistent
// snapshot, so it cannot mark absent an identity whose PRESENT write already
// committed; it is a point-in-time sweep, not a lock on future matches.
// Running it again is a no-op with absent_count zero.
func (s *SessionAttendanceService) Finalize(sessionID uint) (*FinalizeResult, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	rosterIDs, err := s.rosterRepo.IdentityIDsByClass(session.ClassID)
	if err != nil {
		return nil, err
	}

	absentees, err := s.attendanceRepo.SweepAbsent(sessionID, rosterIDs, "not matched before session close")
	if err != nil {
		return nil, err
	}

	for _, identityID := range absentees {
		if err := s.notifier.Notify(identityID, "Marked absent",
			fmt.Sprintf("You were marked absent on %s.", session.SessionDate),
			models.SeverityWarning); err != nil {
			log.Printf("Warning: failed to notify identity %d for session %d: %v", identityID, sessionID, err)
		}
	}

	return &FinalizeResult{AbsentCount: len(absentees)}, nil
}

// SessionRecords returns the ledger entries for a session
func (s *SessionAttendanceService) SessionRecords(sessionID uint) ([]models.AttendanceRecord, error) {
	if _, err := s.sessionRepo.GetByID(sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.attendanceRepo.ListBySession(sessionID)
}

// loadCandidates batch-loads roster templates and decodes their vectors.
// Roster members lacking a template never reach the matcher.
func (s *SessionAttendanceService) loadCandidates(rosterIDs []uint) ([]TemplateCandidate, error) {
	if len(rosterIDs) == 0 {
		return nil, nil
	}

	templates, err := s.templateRepo.GetByIdentityIDs(rosterIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]TemplateCandidate, 0, len(templates))
	for i := range templates {
		vector := templates[i].Vector()
		if len(vector) == 0 {
			continue
		}
		candidates = append(candidates, TemplateCandidate{
			IdentityID: templates[i].IdentityID,
			Vector:     vector,
		})
	}
	return candidates, nil
}
