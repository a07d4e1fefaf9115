// Package model defines domain entities for the application.
package model

// User is the identity principal owning categories and links.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
}
