package models

import "time"

// User is an account. Password holds a one-way hash, never the plaintext.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
}

// UserView is the public projection of a User.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Email: u.Email}
}
