// Package storage defines the persistence interfaces the services depend
// on, plus the sentinel errors every implementation must return so callers
// can map failures to the right response.
package storage

import (
	"context"
	"errors"

	"github.com/fitstack/coachd/internal/domain/diet"
	"github.com/fitstack/coachd/internal/domain/exercise"
	"github.com/fitstack/coachd/internal/domain/food"
	"github.com/fitstack/coachd/internal/domain/routine"
	"github.com/fitstack/coachd/internal/domain/user"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned on uniqueness violations.
	ErrConflict = errors.New("record already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// RoutineStore persists routines together with their exercise assignments.
// CreateRoutine writes the routine and all assignments atomically.
type RoutineStore interface {
	CreateRoutine(ctx context.Context, rt routine.Routine) (routine.Routine, error)
	GetRoutine(ctx context.Context, id string) (routine.Routine, error)
	ListRoutinesByTrainer(ctx context.Context, trainerID string) ([]routine.Routine, error)
	ListRoutinesByClient(ctx context.Context, clientID string) ([]routine.Routine, error)
}

// ExerciseStore persists the exercise catalog and the progress log.
type ExerciseStore interface {
	CreateExercise(ctx context.Context, ex exercise.Exercise) (exercise.Exercise, error)
	GetExercise(ctx context.Context, id string) (exercise.Exercise, error)
	ListExercises(ctx context.Context) ([]exercise.Exercise, error)

	CreateProgress(ctx context.Context, p exercise.Progress) (exercise.Progress, error)
	ListProgress(ctx context.Context, exerciseID, userID string) ([]exercise.Progress, error)
}

// DietStore persists diets, meals, and the food servings inside meals.
// CreateDiet attaches the given meals atomically; CreateMeal writes the meal
// and its servings atomically.
type DietStore interface {
	CreateDiet(ctx context.Context, d diet.Diet, mealIDs []string) (diet.Diet, error)
	GetDiet(ctx context.Context, id string) (diet.Diet, error)
	ListDietsByTrainer(ctx context.Context, trainerID string) ([]diet.Diet, error)
	ListDietsByClient(ctx context.Context, clientID string) ([]diet.Diet, error)

	CreateMeal(ctx context.Context, m diet.Meal) (diet.Meal, error)
	GetMeal(ctx context.Context, id string) (diet.Meal, error)
	ListMeals(ctx context.Context) ([]diet.Meal, error)

	AddFoodServing(ctx context.Context, fs diet.FoodServing) (diet.FoodServing, error)
	ListMealFoods(ctx context.Context, mealID string) ([]diet.FoodServing, error)
}

// FoodStore persists the food catalog.
type FoodStore interface {
	CreateFood(ctx context.Context, f food.Food) (food.Food, error)
	GetFood(ctx context.Context, id string) (food.Food, error)
	ListFoods(ctx context.Context) ([]food.Food, error)
}
