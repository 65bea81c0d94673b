// Package exercise holds the exercise catalog and progress records.
package exercise

import "time"

// Exercise is a catalog entry created by a trainer and referenced by routine
// assignments.
type Exercise struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	VideoURL    string    `db:"video_url" json:"video_url,omitempty"`
	Comment     string    `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Progress is one append-only log entry: a user performed an exercise at a
// given weight for a number of repetitions.
type Progress struct {
	ID          string    `db:"id" json:"id"`
	ExerciseID  string    `db:"exercise_id" json:"exercise_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	WeightKG    float64   `db:"weight_kg" json:"weight_kg"`
	Repetitions int       `db:"repetitions" json:"repetitions"`
	RecordedAt  time.Time `db:"recorded_at" json:"recorded_at"`
}
