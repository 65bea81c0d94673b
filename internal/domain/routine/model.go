// Package routine models workout routines a trainer assigns to a client.
package routine

import "time"

// Assignment binds one exercise into a routine with rep and set targets.
type Assignment struct {
	ID         string `db:"id" json:"id"`
	RoutineID  string `db:"routine_id" json:"routine_id"`
	ExerciseID string `db:"exercise_id" json:"exercise_id"`
	RepsMin    int    `db:"reps_min" json:"reps_min"`
	RepsMax    int    `db:"reps_max" json:"reps_max"`
	Sets       int    `db:"sets" json:"sets"`
}

// Routine is created by exactly one trainer for exactly one client and is
// visible only to those two users.
type Routine struct {
	ID          string       `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Description string       `db:"description" json:"description,omitempty"`
	TrainerID   string       `db:"trainer_id" json:"trainer_id"`
	ClientID    string       `db:"client_id" json:"client_id"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	Exercises   []Assignment `db:"-" json:"exercises"`
}
