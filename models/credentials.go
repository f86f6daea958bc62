package models

// Credentials is the e-mail/password pair entered on the login page.
type Credentials struct {
	Email    string
	Password string
}
