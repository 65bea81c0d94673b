package exercises

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage/memory"
)

func TestCreateAndList(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	ex, err := svc.Create(ctx, CreateInput{Name: "  Bench Press  ", VideoURL: "https://example.com/bench"})
	require.NoError(t, err)
	require.Equal(t, "Bench Press", ex.Name)
	require.NotEmpty(t, ex.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCreateRequiresName(t *testing.T) {
	svc := New(memory.New(), nil)

	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestProgressLifecycle(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	ex, err := svc.Create(ctx, CreateInput{Name: "Deadlift"})
	require.NoError(t, err)

	bob := auth.Identity{UserID: "bob-id", Username: "bob", Role: user.RoleClient}
	carol := auth.Identity{UserID: "carol-id", Username: "carol", Role: user.RoleClient}

	first, err := svc.RecordProgress(ctx, bob, ex.ID, ProgressInput{WeightKG: 100, Repetitions: 5})
	require.NoError(t, err)
	require.Equal(t, bob.UserID, first.UserID)
	require.False(t, first.RecordedAt.IsZero())

	_, err = svc.RecordProgress(ctx, bob, ex.ID, ProgressInput{WeightKG: 105, Repetitions: 5})
	require.NoError(t, err)
	_, err = svc.RecordProgress(ctx, carol, ex.ID, ProgressInput{WeightKG: 60, Repetitions: 8})
	require.NoError(t, err)

	// Each user sees only their own entries, oldest first.
	entries, err := svc.ListProgress(ctx, bob, ex.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, float64(100), entries[0].WeightKG)
	require.Equal(t, float64(105), entries[1].WeightKG)
}

func TestProgressValidation(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()
	bob := auth.Identity{UserID: "bob-id", Role: user.RoleClient}

	ex, err := svc.Create(ctx, CreateInput{Name: "Row"})
	require.NoError(t, err)

	_, err = svc.RecordProgress(ctx, bob, ex.ID, ProgressInput{WeightKG: -1, Repetitions: 5})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeValidation, appErr.Code)

	_, err = svc.RecordProgress(ctx, bob, "missing", ProgressInput{WeightKG: 50, Repetitions: 5})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeNotFound, appErr.Code)
}

func TestListProgressUnknownExercise(t *testing.T) {
	svc := New(memory.New(), nil)

	_, err := svc.ListProgress(context.Background(), auth.Identity{UserID: "bob-id"}, "missing")
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeNotFound, appErr.Code)
}
