// Package domain holds auth core types independent of transport or storage
package domain

import "time"

// User is a registered account
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
