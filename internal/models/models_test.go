package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPublic_StripsSecrets(t *testing.T) {
	t.Parallel()

	digest := "abc"
	u := User{ID: "1", Name: "Ada", Email: "a@x.com", PasswordHash: "hash", RefreshTokenHash: &digest, Role: RoleDoctor}

	pub := u.Public()
	assert.Empty(t, pub.PasswordHash)
	assert.Nil(t, pub.RefreshTokenHash)
	assert.Equal(t, "hash", u.PasswordHash, "original must be untouched")

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "password")
}

func TestRoleAndGender_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleDoctor.Valid())
	assert.True(t, RolePatient.Valid())
	assert.False(t, Role("Admin").Valid())
	assert.False(t, Role("doctor").Valid())

	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
		assert.True(t, g.Valid())
	}
	assert.False(t, Gender("X").Valid())
}

func TestAddToSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		list []string
		ids  []string
		want []string
	}{
		{name: "empty list", list: nil, ids: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "skips present", list: []string{"a"}, ids: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "dedupes input", list: []string{}, ids: []string{"a", "a"}, want: []string{"a"}},
		{name: "nothing to add", list: []string{"a"}, ids: nil, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddToSet(tt.list, tt.ids...))
		})
	}
}

func TestPull(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"b"}, Pull([]string{"a", "b", "a"}, "a"))
	assert.Equal(t, []string{}, Pull(nil, "a"))
	assert.Equal(t, []string{"a"}, Pull([]string{"a"}, "z"))
}

func TestUpdatesEmpty(t *testing.T) {
	t.Parallel()

	name := "x"
	assert.True(t, DoctorUpdate{}.Empty())
	assert.True(t, PatientUpdate{}.Empty())
	assert.True(t, HospitalUpdate{}.Empty())
	assert.True(t, DepartmentUpdate{}.Empty())
	assert.True(t, RecordUpdate{}.Empty())

	assert.False(t, HospitalUpdate{Name: &name}.Empty())
	assert.False(t, RecordUpdate{Medications: []string{}}.Empty())
}
