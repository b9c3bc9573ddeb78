package domain

import "time"

type ID string

// User is a registered identity. Records are immutable after creation; there
// is no profile-edit flow.
type User struct {
	ID           ID
	Name         string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Summary is the public shape of a user, without credentials.
type Summary struct {
	ID       ID
	Name     string
	Username string
}

func (u User) Summary() Summary {
	return Summary{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
	}
}
