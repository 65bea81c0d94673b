package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the tables if they do not exist yet. Schema changes
// beyond the initial shape are applied out of band.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	birth_date    TIMESTAMPTZ,
	height_cm     DOUBLE PRECISION NOT NULL DEFAULT 0,
	weight_kg     DOUBLE PRECISION NOT NULL DEFAULT 0,
	gender        TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS exercises (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	video_url   TEXT NOT NULL DEFAULT '',
	comment     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS routines (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	trainer_id  TEXT NOT NULL REFERENCES users (id),
	client_id   TEXT NOT NULL REFERENCES users (id),
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS routine_exercises (
	id          TEXT PRIMARY KEY,
	routine_id  TEXT NOT NULL REFERENCES routines (id) ON DELETE CASCADE,
	exercise_id TEXT NOT NULL REFERENCES exercises (id),
	reps_min    INTEGER NOT NULL,
	reps_max    INTEGER NOT NULL,
	sets        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exercise_progress (
	id          TEXT PRIMARY KEY,
	exercise_id TEXT NOT NULL REFERENCES exercises (id),
	user_id     TEXT NOT NULL REFERENCES users (id),
	weight_kg   DOUBLE PRECISION NOT NULL,
	repetitions INTEGER NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS foods (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	serving    TEXT NOT NULL DEFAULT '',
	calories   DOUBLE PRECISION NOT NULL DEFAULT 0,
	protein    DOUBLE PRECISION NOT NULL DEFAULT 0,
	carbs      DOUBLE PRECISION NOT NULL DEFAULT 0,
	fats       DOUBLE PRECISION NOT NULL DEFAULT 0,
	source_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS diets (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	trainer_id TEXT NOT NULL REFERENCES users (id),
	client_id  TEXT NOT NULL REFERENCES users (id),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS meals (
	id          TEXT PRIMARY KEY,
	diet_id     TEXT REFERENCES diets (id),
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS meal_foods (
	id       TEXT PRIMARY KEY,
	meal_id  TEXT NOT NULL REFERENCES meals (id) ON DELETE CASCADE,
	food_id  TEXT NOT NULL REFERENCES foods (id),
	servings INTEGER NOT NULL
);
`
