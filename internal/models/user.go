package models

import "time"

// User is the persisted credential record. Hash fields never leave the server.
type User struct {
	ID                   int64     `json:"-"`
	Username             string    `json:"username"`
	LoginPasswordHash    string    `json:"-"`
	WithdrawPasswordHash string    `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
}

// Profile is the public view of a User.
type Profile struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile strips secret material from the record.
func (u User) Profile() Profile {
	return Profile{Username: u.Username, CreatedAt: u.CreatedAt}
}
