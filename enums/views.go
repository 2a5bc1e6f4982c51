package enums

type View string

const (
	ViewLogin                 View = "login"
	ViewRegister              View = "register"
	ViewDashboard             View = "dashboard"
	ViewPractitionerDashboard View = "practitioner-dashboard"
	ViewPatientPortal         View = "patient-portal"
	ViewNoDashboard           View = "no-dashboard"
	ViewChatbot               View = "chatbot"
)

// Path returns the portal route serving the view.
func (v View) Path() string {
	return "/" + string(v)
}

// HomeView maps a role to its landing view. Roles without a dedicated
// dashboard land on ViewNoDashboard.
func HomeView(r Role) View {
	switch r {
	case RolePractitioner:
		return ViewPractitionerDashboard
	case RolePatient:
		return ViewPatientPortal
	default:
		return ViewNoDashboard
	}
}
