package model

// User represents a registered account.
// The password is stored as given; credential checks are plain string
// comparison against it.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Public returns a copy of the user safe for API responses, with the
// password blanked out.
func (u User) Public() User {
	u.Password = ""
	return u
}
