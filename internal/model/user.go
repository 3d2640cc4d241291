package model

import "time"

// User represents a marketplace account as persisted in the `users`
// collection. Records are stored as JSON, so every field carries a
// json tag matching the persisted attribute name. The password hash
// lives alongside the profile because the store persists whole
// collections; API responses use separate view types that omit it.
//
// Fields:
//  ID           – unique identifier of the user, immutable once assigned.
//  Email        – unique email address (exact, case-sensitive match).
//  Username     – display name shown on listings.
//  PasswordHash – bcrypt hash of the password, never the plain text.
//  AvatarURL    – optional profile image URL.
//  CreatedAt    – timestamp of registration.
type User struct {
	ID           string    `json:"id"`                      // users[].id
	Email        string    `json:"email"`                   // users[].email
	Username     string    `json:"username"`                // users[].username
	PasswordHash string    `json:"password_hash,omitempty"` // users[].password_hash
	AvatarURL    string    `json:"avatar_url,omitempty"`    // users[].avatar_url (optional)
	CreatedAt    time.Time `json:"created_at"`              // users[].created_at
}

// Session is the single session pointer persisted under the `session`
// key. At most one session exists per store instance; absence of the
// key means nobody is signed in.
//
// Fields:
//  UserID    – identifier of the signed-in user.
//  StartedAt – when the session was established.
type Session struct {
	UserID    string    `json:"user_id"`    // session.user_id
	StartedAt time.Time `json:"started_at"` // session.started_at
}
