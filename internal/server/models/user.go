package models

import "time"

type User struct {
	ID                int64
	UserName          string
	Email             string
	PasswordHash      string
	CredentialVersion int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicUser is the subset of a User that may be returned to a client.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.UserName, Email: u.Email}
}
