// Package routines implements training plan assignment between trainers
// and their clients.
package routines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/domain/routine"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage"
	"github.com/fitstack/coachd/pkg/logger"
)

// Service creates and reads routines on behalf of an authenticated caller.
type Service struct {
	routines  storage.RoutineStore
	users     storage.UserStore
	exercises storage.ExerciseStore
	log       *logger.Logger
}

// New creates a routine service.
func New(routines storage.RoutineStore, users storage.UserStore, exercises storage.ExerciseStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("routines")
	}
	return &Service{routines: routines, users: users, exercises: exercises, log: log}
}

// AssignmentInput is one exercise entry in a routine creation request.
type AssignmentInput struct {
	ExerciseID string `json:"exercise_id"`
	RepsMin    int    `json:"reps_min"`
	RepsMax    int    `json:"reps_max"`
	Sets       int    `json:"sets"`
}

// CreateInput carries a routine creation request.
type CreateInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ClientID    string            `json:"client_id"`
	Exercises   []AssignmentInput `json:"exercises"`
}

// Create builds a routine owned by the calling trainer. The client and
// every referenced exercise must exist before anything is written.
func (s *Service) Create(ctx context.Context, ident auth.Identity, in CreateInput) (routine.Routine, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return routine.Routine{}, apperr.Validation("name is required")
	}
	if in.ClientID == "" {
		return routine.Routine{}, apperr.Validation("client_id is required")
	}

	client, err := s.users.GetUser(ctx, in.ClientID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return routine.Routine{}, apperr.NotFound("client not found")
		}
		return routine.Routine{}, apperr.Internal("loading client", err)
	}
	if client.Role != user.RoleClient {
		return routine.Routine{}, apperr.Validation("routines can only be assigned to clients")
	}

	assignments := make([]routine.Assignment, 0, len(in.Exercises))
	for i, a := range in.Exercises {
		if a.RepsMin < 1 || a.RepsMax < a.RepsMin || a.Sets < 1 {
			return routine.Routine{}, apperr.Validation(fmt.Sprintf("exercise %d: reps and sets must be positive and reps_max >= reps_min", i))
		}
		if _, err := s.exercises.GetExercise(ctx, a.ExerciseID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return routine.Routine{}, apperr.NotFound(fmt.Sprintf("exercise %s not found", a.ExerciseID))
			}
			return routine.Routine{}, apperr.Internal("loading exercise", err)
		}
		assignments = append(assignments, routine.Assignment{
			ExerciseID: a.ExerciseID,
			RepsMin:    a.RepsMin,
			RepsMax:    a.RepsMax,
			Sets:       a.Sets,
		})
	}

	created, err := s.routines.CreateRoutine(ctx, routine.Routine{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		TrainerID:   ident.UserID,
		ClientID:    client.ID,
		Exercises:   assignments,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return routine.Routine{}, apperr.NotFound("referenced record not found")
		}
		return routine.Routine{}, apperr.Internal("creating routine", err)
	}

	s.log.WithField("routine_id", created.ID).Info("routine created")
	return created, nil
}

// List returns the routines visible to the caller: the ones they created
// when a trainer, the ones assigned to them when a client.
func (s *Service) List(ctx context.Context, ident auth.Identity) ([]routine.Routine, error) {
	var (
		routines []routine.Routine
		err      error
	)
	if ident.IsTrainer() {
		routines, err = s.routines.ListRoutinesByTrainer(ctx, ident.UserID)
	} else {
		routines, err = s.routines.ListRoutinesByClient(ctx, ident.UserID)
	}
	if err != nil {
		return nil, apperr.Internal("listing routines", err)
	}
	return routines, nil
}

// Get returns a routine only to its trainer or its client.
func (s *Service) Get(ctx context.Context, ident auth.Identity, id string) (routine.Routine, error) {
	rt, err := s.routines.GetRoutine(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return routine.Routine{}, apperr.NotFound("routine not found")
		}
		return routine.Routine{}, apperr.Internal("loading routine", err)
	}
	if rt.TrainerID != ident.UserID && rt.ClientID != ident.UserID {
		return routine.Routine{}, apperr.Forbidden("not your routine")
	}
	return rt, nil
}
