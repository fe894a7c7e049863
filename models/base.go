package models

import "github.com/google/uuid"

// assignID fills an empty primary key with a fresh UUID
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// All returns every model that takes part in auto-migration
func All() []interface{} {
	return []interface{}{
		&Account{},
		&User{},
		&Session{},
		&OAuthToken{},
		&Order{},
		&ContactMessage{},
	}
}
