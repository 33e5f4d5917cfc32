package models

// Role identifies which kind of actor a session belongs to.
type Role string

const (
	RoleClient  Role = "client"
	RoleWaiter  Role = "waiter"
	RoleCashier Role = "cashier"
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleWaiter || r == RoleCashier
}

// SessionInfo is the authorization context for every engine call. Identity
// carries the waiter or cashier name; TableNumber is set only for
// table-scoped sessions (clients, and waiters covering a single table);
// ClientName is the optional display name a client checked in with.
type SessionInfo struct {
	Role        Role   `json:"role"`
	Identity    string `json:"identity"`
	TableNumber string `json:"tableNumber,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
}

// TableScoped reports whether the session is bound to a single table.
func (s SessionInfo) TableScoped() bool {
	return s.TableNumber != ""
}
