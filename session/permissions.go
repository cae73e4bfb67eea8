package session

import "github.com/mealpoint/staffdesk/backend"

// Permission is a named capability gating a feature area. Grants arrive from
// the backend as strings; declaring the known kinds here means a typo in a
// route guard fails to compile instead of silently never matching.
type Permission string

const (
	PermViewOrders      Permission = "VIEW_ORDERS"
	PermManageOrders    Permission = "MANAGE_ORDERS"
	PermViewInventory   Permission = "VIEW_INVENTORY"
	PermManageInventory Permission = "MANAGE_INVENTORY"
	PermViewWallet      Permission = "VIEW_WALLET"
	PermManageWallet    Permission = "MANAGE_WALLET"
	PermViewReports     Permission = "VIEW_REPORTS"
	PermManageStaff     Permission = "MANAGE_STAFF"
)

// HasGrant reports whether grants contains an entry for kind with the grant
// bit set. It is total: a nil list, an absent kind, and a revoked entry all
// yield false. With conflicting duplicates, any granted entry wins.
func HasGrant(grants []backend.PermissionGrant, kind Permission) bool {
	for _, g := range grants {
		if g.Type == string(kind) && g.Granted {
			return true
		}
	}
	return false
}
