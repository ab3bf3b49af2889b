package domain

// EntityKind names the record families that carry a row-level read scope.
type EntityKind string

const (
	EntityEmployee  EntityKind = "employee"
	EntityTimeSheet EntityKind = "timesheet"
	EntityLeave     EntityKind = "leave"
)

// ScopeKind selects how a Scope restricts rows.
type ScopeKind int

const (
	// ScopeNone matches nothing.
	ScopeNone ScopeKind = iota
	// ScopeAll matches every row.
	ScopeAll
	// ScopeDepartment matches rows whose department equals DepartmentID.
	ScopeDepartment
	// ScopeOwner matches rows owned by EmployeeID.
	ScopeOwner
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "all"
	case ScopeDepartment:
		return "department"
	case ScopeOwner:
		return "owner"
	default:
		return "none"
	}
}

// Scope is the row-level predicate applied to reads. Repositories translate
// it into their own query language; Covers evaluates it for a single row.
type Scope struct {
	Kind         ScopeKind
	DepartmentID string
	EmployeeID   string
}

func AllRows() Scope { return Scope{Kind: ScopeAll} }

func NoRows() Scope { return Scope{Kind: ScopeNone} }

func DepartmentRows(departmentID string) Scope {
	return Scope{Kind: ScopeDepartment, DepartmentID: departmentID}
}

func OwnedRows(employeeID string) Scope {
	return Scope{Kind: ScopeOwner, EmployeeID: employeeID}
}

// Covers reports whether a row owned by ownerID in departmentID is visible.
// For employee rows ownerID is the employee's own ID.
func (s Scope) Covers(ownerID, departmentID string) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeDepartment:
		return departmentID != "" && departmentID == s.DepartmentID
	case ScopeOwner:
		return ownerID != "" && ownerID == s.EmployeeID
	default:
		return false
	}
}
