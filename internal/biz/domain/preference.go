package domain

import "time"

// UserPreference is the remembered model choice of a user
type UserPreference struct {
	UserID       string
	Model        Model
	LastActiveAt time.Time
}
