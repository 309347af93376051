package enums

import "fmt"

// UserRole identifies the account type a user registered as.
type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleTeacher UserRole = "TEACHER"
	UserRoleParent  UserRole = "PARENT"
	UserRoleAdmin   UserRole = "ADMIN"
)

var validUserRoles = []UserRole{
	UserRoleStudent,
	UserRoleTeacher,
	UserRoleParent,
	UserRoleAdmin,
}

// selfServiceRoles are the roles a caller may register as through the public
// endpoint; ADMIN accounts are provisioned separately.
var selfServiceRoles = []UserRole{
	UserRoleStudent,
	UserRoleTeacher,
	UserRoleParent,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsSelfService reports whether the role may be chosen during registration.
func (r UserRole) IsSelfService() bool {
	for _, candidate := range selfServiceRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
