package model

import "time"

// MaxNameLength caps user names, usernames and category names.
const MaxNameLength = 16

type User struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Username   string     `json:"username"`
	Password   string     `json:"-"`
	TMI        string     `json:"tmi"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	Categories []Category `json:"categories,omitempty"`
}

// DefaultCategoryName is the name of the category every user receives at signup.
func DefaultCategoryName(userName string) string {
	return userName + " Default"
}
