package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role       BoardRole
		view       bool
		edit       bool
		administer bool
	}{
		{RoleViewer, true, false, false},
		{RoleEditor, true, true, false},
		{RoleOwner, true, true, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.view, c.role.Can(capView), "%s view", c.role)
		assert.Equal(t, c.edit, c.role.Can(capEdit), "%s edit", c.role)
		assert.Equal(t, c.administer, c.role.Can(capAdminister), "%s administer", c.role)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleViewer.Valid())
	assert.True(t, RoleEditor.Valid())
	assert.True(t, RoleOwner.Valid())
	assert.False(t, BoardRole(3).Valid())
	assert.False(t, BoardRole(-1).Valid())
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "viewer", RoleViewer.String())
	assert.Equal(t, "editor", RoleEditor.String())
	assert.Equal(t, "owner", RoleOwner.String())
	assert.Equal(t, "role(9)", BoardRole(9).String())
}

func TestInviteStatusCanRespond(t *testing.T) {
	assert.True(t, InvitePending.CanRespond())
	assert.False(t, InviteAccepted.CanRespond())
	assert.False(t, InviteDeclined.CanRespond())
	assert.False(t, InviteExpired.CanRespond())
	assert.False(t, InviteStatus("bogus").CanRespond())
}

func TestPriorityValid(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("").Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestCardStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, CardStatus("done").Valid())
}
