package users

import "time"

// User is the storage representation. PasswordHash never leaves the package;
// handlers render Profile or Summary views instead.
type User struct {
	ID           int
	UserName     string
	Email        string
	PasswordHash string
	Age          *int
	Role         string
	CreatedAt    time.Time
}

// Profile is the owner-facing view of an account.
type Profile struct {
	ID       int    `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Age      *int   `json:"age"`
	Role     string `json:"role"`
}

// Summary is the view exposed to other users (search, friend lists).
type Summary struct {
	ID       int    `json:"id"`
	UserName string `json:"userName"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, UserName: u.UserName, Email: u.Email, Age: u.Age, Role: u.Role}
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, UserName: u.UserName}
}

// PlaceRef is the slice of place data the recommendation queries return.
type PlaceRef struct {
	ID            int    `json:"id"`
	GooglePlaceID string `json:"googleplaceID"`
	Name          string `json:"name"`
	Address       string `json:"address"`
}

// PlaceAges pairs a place with the ages of its commenters (excluding the
// requesting user, unset ages filtered out).
type PlaceAges struct {
	Place PlaceRef
	Ages  []int
}
