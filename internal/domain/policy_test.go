package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	owner := Identity{ID: "u1", Role: RoleUser}
	other := Identity{ID: "u2", Role: RoleUser}
	admin := Identity{ID: "u3", Role: RoleAdmin}

	tests := []struct {
		name    string
		actor   Identity
		ownerID string
		want    bool
	}{
		{"owner on own resource", owner, "u1", true},
		{"owner on others resource", owner, "u2", false},
		{"other user on owners resource", other, "u1", false},
		{"other user on own resource", other, "u2", true},
		{"admin on own resource", admin, "u3", true},
		{"admin on others resource", admin, "u1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.actor, tt.ownerID))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("user")
	assert.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	for _, raw := range []string{"", "Admin", "superuser", "root"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, "role %q should be rejected", raw)
	}
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleUser.IsAdmin())
	assert.False(t, Role("").IsAdmin())
}
