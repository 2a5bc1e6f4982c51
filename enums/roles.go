package enums

type Role string

const (
	RolePractitioner Role = "practitioner"
	RolePatient      Role = "patient"
	// Extended roles appear in some user records but have no dedicated view.
	RoleAdmin     Role = "admin"
	RoleDietitian Role = "dietitian"
)

// RoleNone is used by views that do not require a specific role.
const RoleNone Role = ""

// IsValid reports whether r is one of the roles a user record may carry.
func (r Role) IsValid() bool {
	switch r {
	case RolePractitioner, RolePatient, RoleAdmin, RoleDietitian:
		return true
	}
	return false
}

// IsRegistrable reports whether r may be chosen at self-registration.
func (r Role) IsRegistrable() bool {
	return r == RolePractitioner || r == RolePatient
}

func (r Role) String() string {
	return string(r)
}
