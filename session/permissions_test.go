package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mealpoint/staffdesk/backend"
)

func TestHasGrant(t *testing.T) {
	tests := []struct {
		name   string
		grants []backend.PermissionGrant
		kind   Permission
		want   bool
	}{
		{"nil list", nil, PermViewOrders, false},
		{"empty list", []backend.PermissionGrant{}, PermViewOrders, false},
		{"granted", []backend.PermissionGrant{{Type: "VIEW_ORDERS", Granted: true}}, PermViewOrders, true},
		{"revoked entry", []backend.PermissionGrant{{Type: "VIEW_ORDERS", Granted: false}}, PermViewOrders, false},
		{"absent kind", []backend.PermissionGrant{{Type: "VIEW_WALLET", Granted: true}}, PermViewOrders, false},
		{
			"conflicting duplicates, any granted wins",
			[]backend.PermissionGrant{
				{Type: "VIEW_REPORTS", Granted: false},
				{Type: "VIEW_REPORTS", Granted: true},
				{Type: "VIEW_REPORTS", Granted: false},
			},
			PermViewReports,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasGrant(tt.grants, tt.kind))
		})
	}
}

func TestSnapshotPermissionsRequireAuthentication(t *testing.T) {
	grants := []backend.PermissionGrant{{Type: "VIEW_ORDERS", Granted: true}}

	snap := Snapshot{Authenticated: false, Grants: grants}
	assert.False(t, snap.HasPermission(PermViewOrders), "grants must have no effect while signed out")

	snap.Authenticated = true
	assert.True(t, snap.HasPermission(PermViewOrders))
}
