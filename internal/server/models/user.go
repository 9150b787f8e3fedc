package models

import "time"

// DefaultAvatarURL is assigned to accounts created without a profile photo.
const DefaultAvatarURL = "https://i.pinimg.com/originals/f1/0f/f7/f10ff70a7155e5ab666bcdd1b45b726d.jpg"

// User is the persisted account record. PasswordHash never leaves the
// service layer; handlers only ever see PublicUser.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection of a User safe to return to clients.
// Constructed explicitly instead of deleting fields at serialization time.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the client-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
