package models

import "strings"

// User represents a Telegram user or bot.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// AllName returns the user display name.
func (u *User) AllName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
