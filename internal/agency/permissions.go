package agency

// Capability keys known to this client. The backend may grow keys the
// client has never seen; unknown keys simply evaluate to false.
const (
	PermCustomersView     = "customers.view"
	PermCustomersManage   = "customers.manage"
	PermBookingsView      = "bookings.view"
	PermBookingsManage    = "bookings.manage"
	PermBookingsDelete    = "bookings.delete"
	PermItinerariesView   = "itineraries.view"
	PermItinerariesManage = "itineraries.manage"
	PermLeadsView         = "leads.view"
	PermLeadsManage       = "leads.manage"
	PermPaymentsView      = "payments.view"
	PermPaymentsManage    = "payments.manage"
	PermCommissionsView   = "commissions.view"
	PermAgentsView        = "agents.view"
	PermAgentsApprove     = "agents.approve"
	PermAuditView         = "audit.view"
	PermPermissionsManage = "permissions.manage"
	PermUploadsManage     = "uploads.manage"
)

// KnownPermissions is the closed set of capability tags this client renders
// gates for.
var KnownPermissions = []string{
	PermCustomersView,
	PermCustomersManage,
	PermBookingsView,
	PermBookingsManage,
	PermBookingsDelete,
	PermItinerariesView,
	PermItinerariesManage,
	PermLeadsView,
	PermLeadsManage,
	PermPaymentsView,
	PermPaymentsManage,
	PermCommissionsView,
	PermAgentsView,
	PermAgentsApprove,
	PermAuditView,
	PermPermissionsManage,
	PermUploadsManage,
}

// PermissionSet maps capability keys to grants for one role.
type PermissionSet map[string]bool

// Allows reports whether the set grants the key. A nil set (permissions not
// loaded yet) and absent keys both deny.
func (ps PermissionSet) Allows(key string) bool {
	if ps == nil {
		return false
	}
	return ps[key]
}
