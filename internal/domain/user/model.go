package user

import "time"

// Role classifies what a user may do. Trainers build catalogs and assign
// routines and diets; clients receive them and record progress.
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleClient
}

// IsTrainer reports whether the role grants catalog and assignment writes.
func (r Role) IsTrainer() bool {
	return r == RoleTrainer
}

// User is a registered account. Identity fields (username, email) are fixed
// at registration; profile fields may change later.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	FirstName    string     `db:"first_name" json:"first_name,omitempty"`
	LastName     string     `db:"last_name" json:"last_name,omitempty"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	HeightCM     float64    `db:"height_cm" json:"height_cm,omitempty"`
	WeightKG     float64    `db:"weight_kg" json:"weight_kg,omitempty"`
	Gender       string     `db:"gender" json:"gender,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
