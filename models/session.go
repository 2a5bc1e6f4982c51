package models

// Session pairs the bearer token issued by the auth service with the user it
// authorizes.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s Session) IsZero() bool {
	return s.Token == "" && s.User.ID == ""
}
