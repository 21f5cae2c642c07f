package domain

import "time"

// User is the identity record backing every session. PasswordHash is empty
// for accounts created through Google sign-in.
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name,omitempty"`
	PasswordHash       string     `json:"-"`
	Role               string     `json:"role,omitempty"`
	AdminID            string     `json:"admin_id,omitempty"`
	Credits            int64      `json:"credits"`
	Subscription       string     `json:"subscription,omitempty"`
	IsGoogleUser       bool       `json:"is_google_user,omitempty"`
	GoogleID           string     `json:"-"`
	ResetCode          string     `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
}
