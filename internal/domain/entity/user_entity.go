package entity

import (
	"time"
)

// User is the credential record of a registered pharmacy account.
// Password holds the bcrypt hash, never the raw password.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
