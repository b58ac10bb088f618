package approval

// Role identifies what an actor is allowed to do in the approval pipeline.
type Role string

const (
	RoleDepartmentManager Role = "dm"
	RoleGeneralManager    Role = "gm"
	RoleHRUser            Role = "ik_user"
	RoleHRSupervisor      Role = "ik_spv"
	RoleAdmin             Role = "admin"

	// RoleHR is the canonical role required at the hr pipeline stage.
	// No actor carries it directly; admin, ik_spv and ik_user all
	// normalize to it.
	RoleHR Role = "hr"
)

var validRoles = map[Role]bool{
	RoleDepartmentManager: true,
	RoleGeneralManager:    true,
	RoleHRUser:            true,
	RoleHRSupervisor:      true,
	RoleAdmin:             true,
}

// canonicalRoles collapses the three HR-equivalent roles into RoleHR
// for stage matching. Roles absent from the map pass through unchanged.
var canonicalRoles = map[Role]Role{
	RoleAdmin:        RoleHR,
	RoleHRSupervisor: RoleHR,
	RoleHRUser:       RoleHR,
}

// supervisorRoles is the narrow set permitted to decide on revision
// requests. Note ik_user is deliberately excluded: a junior HR user
// can act at the hr stage but cannot reopen a finalized decision.
var supervisorRoles = map[Role]bool{
	RoleAdmin:        true,
	RoleHRSupervisor: true,
}

// Canonical returns the role used for matching against a stage's
// required role.
func (r Role) Canonical() Role {
	if c, ok := canonicalRoles[r]; ok {
		return c
	}
	return r
}

// IsHRSupervisor reports whether the role may approve or reject
// revision requests.
func (r Role) IsHRSupervisor() bool {
	return supervisorRoles[r]
}

// IsValid reports whether the role is one an actor can carry.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// RolesMatching returns every actor role whose canonical form equals
// the given canonical role. Used to find a representative user for a
// stage's required role.
func RolesMatching(canonical Role) []Role {
	var roles []Role
	for r := range validRoles {
		if r.Canonical() == canonical {
			roles = append(roles, r)
		}
	}
	return roles
}
