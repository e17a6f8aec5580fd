package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivedh-git/attendsysbackend/models"
)

func TestCreateSessionDuplicateScope(t *testing.T) {
	env := newTestEnv(t)

	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	_, err := env.attendance.CreateSession(10, 1, date)
	require.NoError(t, err)

	_, err = env.attendance.CreateSession(10, 1, date)
	assert.ErrorIs(t, err, ErrDuplicateSession)

	// other subject or date is a different scope
	_, err = env.attendance.CreateSession(10, 2, date)
	assert.NoError(t, err)
	_, err = env.attendance.CreateSession(10, 1, date.AddDate(0, 0, 1))
	assert.NoError(t, err)
}

func TestSubmitProbeMatchesNearest(t *testing.T) {
	env := newTestEnv(t)

	s1 := env.enroll(t, "S1", models.RoleStudent, vectorA, 10)
	env.enroll(t, "S2", models.RoleStudent, vectorB, 10)
	session := env.newSession(t, 10)

	result, err := env.attendance.SubmitProbe(session.ID, vectorA)
	require.NoError(t, err)
	require.True(t, result.Matched)
	assert.Equal(t, s1, result.IdentityID)
	assert.Equal(t, 0.0, result.Distance)
	assert.False(t, result.AlreadyRecorded)

	records, err := env.attendance.SessionRecords(session.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, s1, records[0].IdentityID)
	assert.Equal(t, models.StatusPresent, records[0].Status)
	assert.Equal(t, models.MethodFace, records[0].Method)
}

func TestSubmitProbeIdempotent(t *testing.T) {
	env := newTestEnv(t)

	s1 := env.enroll(t, "S1", models.RoleStudent, vectorA, 10)
	session := env.newSession(t, 10)

	first, err := env.attendance.SubmitProbe(session.ID, vectorA)
	require.NoError(t, err)
	require.True(t, first.Matched)
	assert.False(t, first.AlreadyRecorded)

	second, err := env.attendance.SubmitProbe(session.ID, vectorA)
	require.NoError(t, err)
	require.True(t, second.Matched)
	assert.Equal(t, s1, second.IdentityID)
	assert.True(t, second.AlreadyRecorded)

	assert.EqualValues(t, 1, env.recordCount(t, session.ID))
	assert.Equal(t, 1, env.notifier.callCount(), "resubmission must not notify again")
}

func TestSubmitProbeNoMatch(t *testing.T) {
	env := newTestEnv(t)

	env.enroll(t, "S1", models.RoleStudent, vectorA, 10)
	env.enroll(t, "S2", models.RoleStudent, vectorB, 10)
	session := env.newSession(t, 10)

	result, err := env.attendance.SubmitProbe(session.ID, strangerProbe)
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.EqualValues(t, 0, env.recordCount(t, session.ID))
	assert.Zero(t, env.notifier.callCount())
}

func TestSubmitProbeEmptyRoster(t *testing.T) {
	env := newTestEnv(t)
	session := env.newSession(t, 99)

	result, err := env.attendance.SubmitProbe(session.ID, vectorA)
	require.NoError(t, err, "an empty roster is a no-match, not an error")
	assert.False(t, result.Matched)
}

func TestSubmitProbeSkipsMembersWithoutTemplate(t *testing.T) {
	env := newTestEnv(t)

	env.enroll(t, "unenrolled", models.RoleStudent, nil, 10)
	s2 := env.enroll(t, "enrolled", models.RoleStudent, vectorB, 10)
	session := env.newSession(t, 10)

	result, err := env.attendance.SubmitProbe(session.ID, vectorB)
	require.NoError(t, err)
	require.True(t, result.Matched)
	assert.Equal(t, s2, result.IdentityID)
}

func TestSubmitProbeInputErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.attendance.SubmitProbe(12345, vectorA)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session := env.newSession(t, 10)
	_, err = env.attendance.SubmitProbe(session.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidEmbedding)
}

func TestSubmitProbeNotifierFailureDoesNotFailWrite(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errSinkDown

	s1 := env.enroll(t, "S1", models.RoleStudent, vectorA, 10)
	session := env.newSession(t, 10)

	result, err := env.attendance.SubmitProbe(session.ID, vectorA)
	require.NoError(t, err, "notification failure must not surface")
	require.True(t, result.Matched)
	assert.Equal(t, s1, result.IdentityID)
	assert.EqualValues(t, 1, env.recordCount(t, session.ID))
}

func TestFinalizeCompleteness(t *testing.T) {
	env := newTestEnv(t)

	s1 := env.enroll(t, "S1", models.RoleStudent, vectorA, 10)
	s2 := env.enroll(t, "S2", models.RoleStudent, vectorB, 10)
	s3 := env.enroll(t, "S3", models.RoleStudent, nil, 10)
	session := env.newSession(t, 10)

	_, err := env.attendance.SubmitProbe(session.ID, vectorA)
	require.NoError(t, err)

	result, err := env.attendance.Finalize(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.AbsentCount)

	records, err := env.attendance.SessionRecords(session.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byIdentity := map[uint]models.AttendanceRecord{}
	for _, rec := range records {
		byIdentity[rec.IdentityID] = rec
	}
	assert.Equal(t, models.StatusPresent, byIdentity[s1].Status)
	assert.Equal(t, models.MethodFace, byIdentity[s1].Method)
	assert.Equal(t, models.StatusAbsent, byIdentity[s2].Status)
	assert.Equal(t, models.MethodManual, byIdentity[s2].Method)
	assert.Equal(t, models.StatusAbsent, byIdentity[s3].Status)

	// one PRESENT notification plus one per absentee
	assert.ElementsMatch(t, []uint{s1, s2, s3}, env.notifier.notifiedIDs())
}

func TestFinalizeIdempotent(t *testing.T) {
	env := newTestEnv(t)

	env.enroll(t, "S1", models.RoleStudent, vectorA, 10)
	env.enroll(t, "S2", models.RoleStudent, vectorB, 10)
	session := env.newSession(t, 10)

	first, err := env.attendance.Finalize(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, first.AbsentCount, "finalize before any probes marks the whole roster absent")

	before, err := env.attendance.SessionRecords(session.ID)
	require.NoError(t, err)
	notified := env.notifier.callCount()

	second, err := env.attendance.Finalize(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.AbsentCount)

	after, err := env.attendance.SessionRecords(session.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a second finalize must leave the ledger untouched")
	assert.Equal(t, notified, env.notifier.callCount(), "a second finalize must not notify")
}

func TestFinalizeSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.attendance.Finalize(404)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLateProbeAfterFinalizeDoesNotOverwrite(t *testing.T) {
	env := newTestEnv(t)

	s1 := env.enroll(t, "S1", models.RoleStudent, vectorA, 10)
	session := env.newSession(t, 10)

	_, err := env.attendance.Finalize(session.ID)
	require.NoError(t, err)

	// the identity is now ABSENT; a late match reports the conflict and
	// leaves the record as the sweep wrote it
	result, err := env.attendance.SubmitProbe(session.ID, vectorA)
	require.NoError(t, err)
	require.True(t, result.Matched)
	assert.True(t, result.AlreadyRecorded)

	records, err := env.attendance.SessionRecords(session.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, s1, records[0].IdentityID)
	assert.Equal(t, models.StatusAbsent, records[0].Status)
}

func TestRegisterTemplateValidation(t *testing.T) {
	env := newTestEnv(t)
	id := env.enroll(t, "S1", models.RoleStudent, nil, 0)

	assert.ErrorIs(t, env.enrollment.RegisterTemplate(id, nil), ErrInvalidEmbedding)
	assert.ErrorIs(t, env.enrollment.RegisterTemplate(id, []float64{0, 0, 0, 0}), ErrInvalidEmbedding)
	assert.ErrorIs(t, env.enrollment.RegisterTemplate(999, vectorA), ErrIdentityNotFound)

	// a configured dimension rejects anything else
	strict := NewEnrollmentService(env.identityRepo, env.templateRepo, env.rosterRepo, 4)
	assert.ErrorIs(t, strict.RegisterTemplate(id, []float64{1, 2}), ErrInvalidEmbedding)
	assert.NoError(t, strict.RegisterTemplate(id, vectorA))
}

func TestRegisterTemplateReplacesAtomically(t *testing.T) {
	env := newTestEnv(t)
	id := env.enroll(t, "S1", models.RoleStudent, vectorA, 10)
	session := env.newSession(t, 10)

	// after re-registration the old template no longer matches
	require.NoError(t, env.enrollment.RegisterTemplate(id, vectorB))

	var count int64
	require.NoError(t, env.db.Model(&models.FaceTemplate{}).
		Where("identity_id = ?", id).Count(&count).Error)
	assert.EqualValues(t, 1, count, "re-registration must not create a second template")

	result, err := env.attendance.SubmitProbe(session.ID, vectorB)
	require.NoError(t, err)
	require.True(t, result.Matched)
	assert.Equal(t, id, result.IdentityID)
}
