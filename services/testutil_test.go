package services

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nivedh-git/attendsysbackend/database"
	"github.com/nivedh-git/attendsysbackend/models"
	"github.com/nivedh-git/attendsysbackend/repository"
)

// Integer template vectors with norm exactly 5; pairwise cosine distances
// are exact rationals, so threshold comparisons in tests are deterministic.
var (
	vectorA = []float64{1, 2, 2, 4}
	vectorB = []float64{-4, 2, 2, 1} // distance 0.68 from vectorA
	vectorC = []float64{2, 4, 1, 2}  // distance 0.2 from vectorA

	// negative similarity against every vector above
	strangerProbe = []float64{-1, -2, -2, -4}
)

type notifyCall struct {
	IdentityID uint
	Title      string
	Severity   string
}

// fakeNotifier records deliveries synchronously
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) Notify(identityID uint, title, message, severity string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, notifyCall{IdentityID: identityID, Title: title, Severity: severity})
	return nil
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeNotifier) notifiedIDs() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint, 0, len(f.calls))
	for _, c := range f.calls {
		ids = append(ids, c.IdentityID)
	}
	return ids
}

type testEnv struct {
	db             *gorm.DB
	notifier       *fakeNotifier
	identityRepo   *repository.IdentityRepository
	templateRepo   *repository.TemplateRepository
	rosterRepo     *repository.RosterRepository
	sessionRepo    *repository.SessionRepository
	attendanceRepo *repository.AttendanceRepository
	selfRepo       *repository.SelfAttendanceRepository
	enrollment     *EnrollmentService
	attendance     *SessionAttendanceService
	self           *SelfAttendanceService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	env := &testEnv{
		db:             db,
		notifier:       &fakeNotifier{},
		identityRepo:   repository.NewIdentityRepository(db),
		templateRepo:   repository.NewTemplateRepository(db),
		rosterRepo:     repository.NewRosterRepository(db),
		sessionRepo:    repository.NewSessionRepository(db),
		attendanceRepo: repository.NewAttendanceRepository(db),
		selfRepo:       repository.NewSelfAttendanceRepository(db),
	}

	matcher := NewMatcher(DefaultMatchThreshold)
	env.enrollment = NewEnrollmentService(env.identityRepo, env.templateRepo, env.rosterRepo, 0)
	env.attendance = NewSessionAttendanceService(
		env.sessionRepo, env.rosterRepo, env.templateRepo, env.attendanceRepo, matcher, env.notifier)
	env.self = NewSelfAttendanceService(env.templateRepo, env.selfRepo, matcher, env.notifier)
	return env
}

// enroll creates an identity, optionally registers a template, and
// optionally places it on a class roster. classID zero skips the roster.
func (env *testEnv) enroll(t *testing.T, name, role string, vector []float64, classID uint) uint {
	t.Helper()
	identity, err := env.enrollment.CreateIdentity(name, role)
	require.NoError(t, err)
	if vector != nil {
		require.NoError(t, env.enrollment.RegisterTemplate(identity.ID, vector))
	}
	if classID != 0 {
		require.NoError(t, env.enrollment.AddToClass(classID, identity.ID))
	}
	return identity.ID
}

func (env *testEnv) newSession(t *testing.T, classID uint) *models.AttendanceSession {
	t.Helper()
	session, err := env.attendance.CreateSession(classID, 1, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return session
}

func (env *testEnv) recordCount(t *testing.T, sessionID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&models.AttendanceRecord{}).
		Where("session_id = ?", sessionID).Count(&count).Error)
	return count
}

var errSinkDown = errors.New("notification sink down")
