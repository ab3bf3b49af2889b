package domain

// Permission is an opaque grant checked by set membership. There is no
// hierarchy between permissions.
type Permission string

const (
	PermEmployeeRead     Permission = "Employee.Read"
	PermEmployeeWrite    Permission = "Employee.Write"
	PermEmployeeDelete   Permission = "Employee.Delete"
	PermTimesheetApprove Permission = "Timesheet.Approve"
	PermLeaveApprove     Permission = "Leave.Approve"
	PermReportsView      Permission = "Reports.View"
	PermAdmin            Permission = "Admin"
)

// Permissions lists the full vocabulary.
var Permissions = []Permission{
	PermEmployeeRead,
	PermEmployeeWrite,
	PermEmployeeDelete,
	PermTimesheetApprove,
	PermLeaveApprove,
	PermReportsView,
	PermAdmin,
}

// KnownPermission reports whether p belongs to the vocabulary.
func KnownPermission(p Permission) bool {
	for _, known := range Permissions {
		if known == p {
			return true
		}
	}
	return false
}

// Principal is an identity together with the permissions its role grants.
type Principal struct {
	Identity    Identity
	Permissions map[Permission]struct{}
}

func NewPrincipal(identity Identity, perms []Permission) *Principal {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return &Principal{Identity: identity, Permissions: set}
}

// Can reports whether the principal was granted perm. A nil principal has no
// grants.
func (p *Principal) Can(perm Permission) bool {
	if p == nil {
		return false
	}
	_, ok := p.Permissions[perm]
	return ok
}

// CanAny reports whether at least one of perms was granted.
func (p *Principal) CanAny(perms ...Permission) bool {
	for _, perm := range perms {
		if p.Can(perm) {
			return true
		}
	}
	return false
}

// Actor is the value stamped into createdBy/modifiedBy/approvedBy fields.
func (p *Principal) Actor() string {
	if p == nil {
		return ""
	}
	return p.Identity.Email
}
