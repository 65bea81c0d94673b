// Package exercises implements the shared exercise catalog and the
// per-user progress log.
package exercises

import (
	"context"
	"errors"
	"strings"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/domain/exercise"
	"github.com/fitstack/coachd/internal/storage"
	"github.com/fitstack/coachd/pkg/logger"
)

// Service manages exercises and progress entries.
type Service struct {
	store storage.ExerciseStore
	log   *logger.Logger
}

// New creates an exercise service.
func New(store storage.ExerciseStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("exercises")
	}
	return &Service{store: store, log: log}
}

// CreateInput carries an exercise catalog entry.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Comment     string `json:"comment"`
}

// Create adds an exercise to the catalog.
func (s *Service) Create(ctx context.Context, in CreateInput) (exercise.Exercise, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return exercise.Exercise{}, apperr.Validation("name is required")
	}

	created, err := s.store.CreateExercise(ctx, exercise.Exercise{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		VideoURL:    strings.TrimSpace(in.VideoURL),
		Comment:     strings.TrimSpace(in.Comment),
	})
	if err != nil {
		return exercise.Exercise{}, apperr.Internal("creating exercise", err)
	}

	s.log.WithField("exercise_id", created.ID).Info("exercise created")
	return created, nil
}

// Get returns one catalog entry.
func (s *Service) Get(ctx context.Context, id string) (exercise.Exercise, error) {
	ex, err := s.store.GetExercise(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return exercise.Exercise{}, apperr.NotFound("exercise not found")
		}
		return exercise.Exercise{}, apperr.Internal("loading exercise", err)
	}
	return ex, nil
}

// List returns the whole catalog. The catalog is shared, not per-trainer.
func (s *Service) List(ctx context.Context) ([]exercise.Exercise, error) {
	exercises, err := s.store.ListExercises(ctx)
	if err != nil {
		return nil, apperr.Internal("listing exercises", err)
	}
	return exercises, nil
}

// ProgressInput carries one progress measurement.
type ProgressInput struct {
	WeightKG    float64 `json:"weight_kg"`
	Repetitions int     `json:"repetitions"`
}

// RecordProgress appends a progress entry for the caller against an
// existing exercise.
func (s *Service) RecordProgress(ctx context.Context, ident auth.Identity, exerciseID string, in ProgressInput) (exercise.Progress, error) {
	if in.WeightKG < 0 || in.Repetitions < 0 {
		return exercise.Progress{}, apperr.Validation("weight and repetitions must not be negative")
	}
	if _, err := s.store.GetExercise(ctx, exerciseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return exercise.Progress{}, apperr.NotFound("exercise not found")
		}
		return exercise.Progress{}, apperr.Internal("loading exercise", err)
	}

	entry, err := s.store.CreateProgress(ctx, exercise.Progress{
		ExerciseID:  exerciseID,
		UserID:      ident.UserID,
		WeightKG:    in.WeightKG,
		Repetitions: in.Repetitions,
	})
	if err != nil {
		return exercise.Progress{}, apperr.Internal("recording progress", err)
	}
	return entry, nil
}

// ListProgress returns the caller's own progress entries for an exercise,
// oldest first.
func (s *Service) ListProgress(ctx context.Context, ident auth.Identity, exerciseID string) ([]exercise.Progress, error) {
	if _, err := s.store.GetExercise(ctx, exerciseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("exercise not found")
		}
		return nil, apperr.Internal("loading exercise", err)
	}
	entries, err := s.store.ListProgress(ctx, exerciseID, ident.UserID)
	if err != nil {
		return nil, apperr.Internal("listing progress", err)
	}
	return entries, nil
}
