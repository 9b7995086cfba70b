package domain

// Role represents user role in the system
type Role string

const (
	RoleSuperUser Role = "SuperUser"
	RoleAdmin     Role = "Admin"
	RoleFacAdmin  Role = "FacAdmin"
	RoleEmployee  Role = "Employee"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch Role(r) {
	case RoleSuperUser, RoleAdmin, RoleFacAdmin, RoleEmployee:
		return true
	}
	return false
}

// RequiresEmail reports whether the role must carry an email address.
func (r Role) RequiresEmail() bool {
	return r == RoleSuperUser
}

// RequiresCompany reports whether the role must be scoped to a company.
func (r Role) RequiresCompany() bool {
	switch r {
	case RoleAdmin, RoleFacAdmin, RoleEmployee:
		return true
	}
	return false
}
