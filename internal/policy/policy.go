package policy

// Decision is the outcome of a policy check. Reason is surfaced to the
// caller when the check denies.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Policy gates role-protected mutations. Event authoring requires an
// explicit allow from the injected policy, not a hardcoded flag.
type Policy interface {
	CanManageEvents(roles []string) Decision
}

// AdminRole is the realm role that grants event authoring.
const AdminRole = "portal-admin"

// RolePolicy allows event authoring to actors carrying the admin role in
// their token claims.
type RolePolicy struct{}

func NewRolePolicy() *RolePolicy {
	return &RolePolicy{}
}

func (p *RolePolicy) CanManageEvents(roles []string) Decision {
	for _, role := range roles {
		if role == AdminRole {
			return Allow()
		}
	}
	return Deny("actor does not hold the " + AdminRole + " role")
}
