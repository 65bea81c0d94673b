package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitstack/coachd/internal/domain/exercise"
	"github.com/fitstack/coachd/internal/domain/routine"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestGetUserNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetUser(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateUserUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	_, err := store.CreateUser(context.Background(), user.User{
		Username: "alice",
		Email:    "alice@example.com",
		Role:     user.RoleTrainer,
	})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}

func TestCreateProgressForeignKeyViolation(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO exercise_progress").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "exercise_progress_exercise_id_fkey"})

	_, err := store.CreateProgress(context.Background(), exercise.Progress{
		ExerciseID: "nope",
		UserID:     "user-1",
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateExercise(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO exercises").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ex, err := store.CreateExercise(context.Background(), exercise.Exercise{Name: "Deadlift"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ex.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if ex.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestCreateRoutineRollsBackOnAssignmentError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO routines").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO routine_exercises").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "routine_exercises_exercise_id_fkey"})
	mock.ExpectRollback()

	_, err := store.CreateRoutine(context.Background(), routineWithOneAssignment())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func routineWithOneAssignment() routine.Routine {
	return routine.Routine{
		Name:      "Push Day",
		TrainerID: "trainer-1",
		ClientID:  "client-1",
		Exercises: []routine.Assignment{
			{ExerciseID: "missing", RepsMin: 8, RepsMax: 12, Sets: 3},
		},
	}
}

// Integration coverage runs only when a live database is provided.
func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("schema: %v", err)
	}

	store := New(db)
	u, err := store.CreateUser(context.Background(), user.User{
		Username:     "it-alice",
		Email:        "it-alice@example.com",
		PasswordHash: "x",
		Role:         user.RoleTrainer,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := store.GetUserByUsername(context.Background(), "it-alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("id = %q, want %q", got.ID, u.ID)
	}
}
