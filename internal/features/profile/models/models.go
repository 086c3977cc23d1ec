package models

import (
	"encoding/json"
	"time"
)

// User is an identity row. Token and Email are nullable in the store.
type User struct {
	ID        string    `json:"id"`
	Token     *string   `json:"token"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile extends a User one-to-one. A user may have no profile at all;
// every column except user_id is nullable.
type Profile struct {
	UserID      string          `json:"user_id"`
	ProfileType *string         `json:"profile_type"`
	DisplayName *string         `json:"display_name"`
	Bio         *string         `json:"bio"`
	Metadata    json.RawMessage `json:"metadata"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MeResponse is the 200 body of the /me endpoint. ProfileType mirrors the
// profile's type field and is an explicit null when no profile exists.
type MeResponse struct {
	User        *User    `json:"user"`
	Profile     *Profile `json:"profile"`
	ProfileType *string  `json:"profile_type"`
}
