package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivedh-git/attendsysbackend/models"
)

func TestCreateIdentityRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.enrollment.CreateIdentity("X", "ADMIN")
	assert.Error(t, err)
}

func TestIdentityLifecycle(t *testing.T) {
	env := newTestEnv(t)
	student := env.enroll(t, "S1", models.RoleStudent, vectorA, 0)
	env.enroll(t, "T1", models.RoleStaff, nil, 0)

	identity, err := env.enrollment.GetIdentity(student)
	require.NoError(t, err)
	assert.Equal(t, "S1", identity.Name)
	require.NotNil(t, identity.Template)
	assert.Equal(t, vectorA, identity.Template.Vector())

	students, err := env.enrollment.ListIdentities(models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, student, students[0].ID)

	require.NoError(t, env.enrollment.DeleteIdentity(student))
	_, err = env.enrollment.GetIdentity(student)
	assert.ErrorIs(t, err, ErrIdentityNotFound)

	// deleting again reports the missing identity
	assert.ErrorIs(t, env.enrollment.DeleteIdentity(student), ErrIdentityNotFound)
}

func TestGetIdentityNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.enrollment.GetIdentity(999)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}
