package models

// Account is a locally stored credential record used for offline login.
// Email is the unique key. The password is stored as a bcrypt hash, never
// in plain text.
type Account struct {
	UserID       string
	Name         string
	Email        string
	PasswordHash []byte
}

// User converts the account into a session identity.
func (a Account) User() User {
	return User{UserID: a.UserID, Name: a.Name, Email: a.Email}
}
