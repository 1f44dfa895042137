package entity

import "time"

// Contact is a single entry in a user's personal contact list.
// Owner references the user the contact belongs to; every path that
// creates a contact sets it from the authenticated caller.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Favorite  bool      `json:"favorite"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
