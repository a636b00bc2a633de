package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core/profile"
	"github.com/darasahq/darasa/storage/inmem"
)

func setup(t *testing.T) profile.Service {
	t.Helper()
	db, err := inmem.Open()
	require.NoError(t, err)
	return profile.NewService(inmem.NewProfileRepository(db))
}

func TestNewUserProfile(t *testing.T) {
	p := profile.NewUserProfile("u1", "  Neema ", "Mwangi", "Neema.Mwangi@Test.CD", "")

	assert.Equal(t, "Neema", p.Name.GivenName)
	assert.Equal(t, "Neema Mwangi", p.Name.FullName)
	assert.Equal(t, "neema.mwangi@test.cd", p.EmailAddress)
	assert.False(t, p.VerifiedTeacher)
}

func TestService_Register(t *testing.T) {
	svc := setup(t)

	t.Run("ok", func(t *testing.T) {
		p, err := svc.Register(profile.NewUserProfile("u1", "Neema", "Mwangi", "neema@test.cd", ""))
		require.NoError(t, err)
		assert.Equal(t, "u1", p.ID)

		got, err := svc.Get("u1")
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := svc.Register(profile.NewUserProfile("u1", "Neema", "Mwangi", "neema@test.cd", ""))
		assert.Equal(t, profile.ErrExists, err)
	})

	t.Run("id required", func(t *testing.T) {
		_, err := svc.Register(profile.NewUserProfile("", "A", "B", "a@test.cd", ""))
		assert.Error(t, err)
	})

	t.Run("email required", func(t *testing.T) {
		_, err := svc.Register(profile.NewUserProfile("u2", "A", "B", "", ""))
		assert.Error(t, err)
	})
}

func TestService_GetByEmail(t *testing.T) {
	svc := setup(t)
	_, err := svc.Register(profile.NewUserProfile("u1", "Neema", "Mwangi", "neema@test.cd", ""))
	require.NoError(t, err)

	got, err := svc.GetByEmail("NEEMA@test.cd")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = svc.GetByEmail("nobody@test.cd")
	assert.Equal(t, profile.ErrNotFound, err)
}
