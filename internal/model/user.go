package model

import "time"

// User roles
const (
	RoleTraveler = "traveler"
	RoleAgent    = "agent"
)

// User represents a registered traveler or travel agent.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // bcrypt hash, never serialized
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Role           string    `json:"role"`
	ProfilePicture string    `json:"profilePicture"`
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PublicProfile is the subset of user fields safe to attach to other
// users' responses (review authors, conversation counterparts).
type PublicProfile struct {
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
	}
}
