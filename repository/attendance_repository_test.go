package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nivedh-git/attendsysbackend/database"
	"github.com/nivedh-git/attendsysbackend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func createIdentities(t *testing.T, db *gorm.DB, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		identity := &models.Identity{Name: "identity", Role: models.RoleStudent}
		require.NoError(t, NewIdentityRepository(db).Create(identity))
		ids = append(ids, identity.ID)
	}
	return ids
}

func createSession(t *testing.T, db *gorm.DB, classID uint) uint {
	t.Helper()
	session := &models.AttendanceSession{ClassID: classID, SubjectID: 1, SessionDate: "2026-03-09"}
	created, err := NewSessionRepository(db).Create(session)
	require.NoError(t, err)
	require.True(t, created)
	return session.ID
}

func TestAttendanceInsertIfAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttendanceRepository(db)
	ids := createIdentities(t, db, 1)
	sessionID := createSession(t, db, 1)

	inserted, err := repo.InsertIfAbsent(&models.AttendanceRecord{
		SessionID: sessionID, IdentityID: ids[0],
		Status: models.StatusPresent, Method: models.MethodFace,
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	// second write for the same (session, identity) is swallowed
	inserted, err = repo.InsertIfAbsent(&models.AttendanceRecord{
		SessionID: sessionID, IdentityID: ids[0],
		Status: models.StatusAbsent, Method: models.MethodManual,
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	records, err := repo.ListBySession(sessionID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusPresent, records[0].Status)
	assert.Equal(t, models.MethodFace, records[0].Method)
}

func TestSweepAbsentFillsOnlyMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttendanceRepository(db)
	ids := createIdentities(t, db, 3)
	sessionID := createSession(t, db, 1)

	_, err := repo.InsertIfAbsent(&models.AttendanceRecord{
		SessionID: sessionID, IdentityID: ids[1],
		Status: models.StatusPresent, Method: models.MethodFace,
	})
	require.NoError(t, err)

	absentees, err := repo.SweepAbsent(sessionID, ids, "session finalized")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{ids[0], ids[2]}, absentees)

	records, err := repo.ListBySession(sessionID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		if record.IdentityID == ids[1] {
			assert.Equal(t, models.StatusPresent, record.Status)
		} else {
			assert.Equal(t, models.StatusAbsent, record.Status)
			assert.Equal(t, models.MethodManual, record.Method)
			assert.Equal(t, "session finalized", record.Remarks)
		}
	}

	// the whole roster is covered now, so a repeat sweep is a no-op
	absentees, err = repo.SweepAbsent(sessionID, ids, "session finalized")
	require.NoError(t, err)
	assert.Empty(t, absentees)
}

func TestSweepAbsentEmptyRoster(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttendanceRepository(db)
	sessionID := createSession(t, db, 1)

	absentees, err := repo.SweepAbsent(sessionID, nil, "")
	require.NoError(t, err)
	assert.Empty(t, absentees)
}

func TestSessionCreateScopeConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	first := &models.AttendanceSession{ClassID: 5, SubjectID: 2, SessionDate: "2026-03-09"}
	created, err := repo.Create(first)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(&models.AttendanceSession{ClassID: 5, SubjectID: 2, SessionDate: "2026-03-09"})
	require.NoError(t, err)
	assert.False(t, created)

	// a different subject on the same day is a distinct scope
	created, err = repo.Create(&models.AttendanceSession{ClassID: 5, SubjectID: 3, SessionDate: "2026-03-09"})
	require.NoError(t, err)
	assert.True(t, created)

	found, err := repo.GetByScope(5, 2, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestTemplateUpsertReplaces(t *testing.T) {
	db := newTestDB(t)
	repo := NewTemplateRepository(db)
	ids := createIdentities(t, db, 1)

	first := &models.FaceTemplate{IdentityID: ids[0], EmbeddingModel: "arcface"}
	first.SetVector([]float64{1, 2, 2, 4})
	require.NoError(t, repo.Upsert(first))

	second := &models.FaceTemplate{IdentityID: ids[0], EmbeddingModel: "arcface"}
	second.SetVector([]float64{2, 4, 1, 2})
	require.NoError(t, repo.Upsert(second))

	var count int64
	require.NoError(t, db.Model(&models.FaceTemplate{}).Where("identity_id = ?", ids[0]).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stored, err := repo.GetByIdentityID(ids[0])
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 1, 2}, stored.Vector())
}

func TestSelfAttendanceDailyConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewSelfAttendanceRepository(db)
	ids := createIdentities(t, db, 1)

	inserted, err := repo.InsertIfAbsent(&models.SelfAttendanceRecord{
		IdentityID: ids[0], Date: "2026-03-09",
		Status: models.StatusPresent, Method: models.MethodFace,
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertIfAbsent(&models.SelfAttendanceRecord{
		IdentityID: ids[0], Date: "2026-03-09",
		Status: models.StatusPresent, Method: models.MethodFace,
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = repo.InsertIfAbsent(&models.SelfAttendanceRecord{
		IdentityID: ids[0], Date: "2026-03-10",
		Status: models.StatusPresent, Method: models.MethodFace,
	})
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestRosterMembershipIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRosterRepository(db)
	ids := createIdentities(t, db, 2)

	require.NoError(t, repo.AddMember(&models.ClassMember{ClassID: 7, IdentityID: ids[0]}))
	require.NoError(t, repo.AddMember(&models.ClassMember{ClassID: 7, IdentityID: ids[1]}))
	require.NoError(t, repo.AddMember(&models.ClassMember{ClassID: 7, IdentityID: ids[0]}))

	members, err := repo.IdentityIDsByClass(7)
	require.NoError(t, err)
	assert.Equal(t, []uint{ids[0], ids[1]}, members)
}
