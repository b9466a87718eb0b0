package entity

import "time"

type Admin struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// AdminLoginData is what the guard stores in fiber locals for an authenticated request.
type AdminLoginData struct {
	ID        string
	Email     string
	SessionID string
}
