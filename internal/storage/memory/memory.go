// Package memory is an in-memory implementation of the storage interfaces.
// It is safe for concurrent use and is intended for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fitstack/coachd/internal/domain/diet"
	"github.com/fitstack/coachd/internal/domain/exercise"
	"github.com/fitstack/coachd/internal/domain/food"
	"github.com/fitstack/coachd/internal/domain/routine"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage"
)

// Store keeps every aggregate in maps guarded by one RWMutex. Reads return
// copies so callers can never mutate stored state.
type Store struct {
	mu        sync.RWMutex
	users     map[string]user.User
	usernames map[string]string
	emails    map[string]string
	routines  map[string]routine.Routine
	exercises map[string]exercise.Exercise
	progress  map[string][]exercise.Progress
	diets     map[string]diet.Diet
	meals     map[string]diet.Meal
	foods     map[string]food.Food
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.RoutineStore = (*Store)(nil)
var _ storage.ExerciseStore = (*Store)(nil)
var _ storage.DietStore = (*Store)(nil)
var _ storage.FoodStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:     make(map[string]user.User),
		usernames: make(map[string]string),
		emails:    make(map[string]string),
		routines:  make(map[string]routine.Routine),
		exercises: make(map[string]exercise.Exercise),
		progress:  make(map[string][]exercise.Progress),
		diets:     make(map[string]diet.Diet),
		meals:     make(map[string]diet.Meal),
		foods:     make(map[string]food.Food),
	}
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernames[u.Username]; taken {
		return user.User{}, fmt.Errorf("username %s: %w", u.Username, storage.ErrConflict)
	}
	if _, taken := s.emails[u.Email]; taken {
		return user.User{}, fmt.Errorf("email %s: %w", u.Email, storage.ErrConflict)
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	s.users[u.ID] = u
	s.usernames[u.Username] = u.ID
	s.emails[u.Email] = u.ID
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}
	return s.users[id], nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return user.User{}, fmt.Errorf("email %s: %w", email, storage.ErrNotFound)
	}
	return s.users[id], nil
}

// RoutineStore implementation -------------------------------------------------

func (s *Store) CreateRoutine(_ context.Context, rt routine.Routine) (routine.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	rt.CreatedAt = time.Now().UTC()

	assignments := make([]routine.Assignment, len(rt.Exercises))
	for i, a := range rt.Exercises {
		if _, ok := s.exercises[a.ExerciseID]; !ok {
			return routine.Routine{}, fmt.Errorf("exercise %s: %w", a.ExerciseID, storage.ErrNotFound)
		}
		a.ID = uuid.NewString()
		a.RoutineID = rt.ID
		assignments[i] = a
	}
	rt.Exercises = assignments

	s.routines[rt.ID] = rt
	return cloneRoutine(rt), nil
}

func (s *Store) GetRoutine(_ context.Context, id string) (routine.Routine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rt, ok := s.routines[id]
	if !ok {
		return routine.Routine{}, fmt.Errorf("routine %s: %w", id, storage.ErrNotFound)
	}
	return cloneRoutine(rt), nil
}

func (s *Store) ListRoutinesByTrainer(_ context.Context, trainerID string) ([]routine.Routine, error) {
	return s.listRoutines(func(rt routine.Routine) bool { return rt.TrainerID == trainerID })
}

func (s *Store) ListRoutinesByClient(_ context.Context, clientID string) ([]routine.Routine, error) {
	return s.listRoutines(func(rt routine.Routine) bool { return rt.ClientID == clientID })
}

func (s *Store) listRoutines(match func(routine.Routine) bool) ([]routine.Routine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []routine.Routine
	for _, rt := range s.routines {
		if match(rt) {
			result = append(result, cloneRoutine(rt))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// ExerciseStore implementation ------------------------------------------------

func (s *Store) CreateExercise(_ context.Context, ex exercise.Exercise) (exercise.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	ex.CreatedAt = time.Now().UTC()

	s.exercises[ex.ID] = ex
	return ex, nil
}

func (s *Store) GetExercise(_ context.Context, id string) (exercise.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ex, ok := s.exercises[id]
	if !ok {
		return exercise.Exercise{}, fmt.Errorf("exercise %s: %w", id, storage.ErrNotFound)
	}
	return ex, nil
}

func (s *Store) ListExercises(_ context.Context) ([]exercise.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]exercise.Exercise, 0, len(s.exercises))
	for _, ex := range s.exercises {
		result = append(result, ex)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) CreateProgress(_ context.Context, p exercise.Progress) (exercise.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exercises[p.ExerciseID]; !ok {
		return exercise.Progress{}, fmt.Errorf("exercise %s: %w", p.ExerciseID, storage.ErrNotFound)
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.RecordedAt = time.Now().UTC()

	s.progress[p.ExerciseID] = append(s.progress[p.ExerciseID], p)
	return p, nil
}

func (s *Store) ListProgress(_ context.Context, exerciseID, userID string) ([]exercise.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []exercise.Progress
	for _, p := range s.progress[exerciseID] {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

// DietStore implementation ----------------------------------------------------

func (s *Store) CreateDiet(_ context.Context, d diet.Diet, mealIDs []string) (diet.Diet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, mealID := range mealIDs {
		if _, ok := s.meals[mealID]; !ok {
			return diet.Diet{}, fmt.Errorf("meal %s: %w", mealID, storage.ErrNotFound)
		}
	}

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()
	d.Meals = nil
	s.diets[d.ID] = d

	for _, mealID := range mealIDs {
		m := s.meals[mealID]
		m.DietID = d.ID
		s.meals[mealID] = m
	}

	return s.expandDietLocked(d), nil
}

func (s *Store) GetDiet(_ context.Context, id string) (diet.Diet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.diets[id]
	if !ok {
		return diet.Diet{}, fmt.Errorf("diet %s: %w", id, storage.ErrNotFound)
	}
	return s.expandDietLocked(d), nil
}

func (s *Store) ListDietsByTrainer(_ context.Context, trainerID string) ([]diet.Diet, error) {
	return s.listDiets(func(d diet.Diet) bool { return d.TrainerID == trainerID })
}

func (s *Store) ListDietsByClient(_ context.Context, clientID string) ([]diet.Diet, error) {
	return s.listDiets(func(d diet.Diet) bool { return d.ClientID == clientID })
}

func (s *Store) listDiets(match func(diet.Diet) bool) ([]diet.Diet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []diet.Diet
	for _, d := range s.diets {
		if match(d) {
			result = append(result, s.expandDietLocked(d))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) CreateMeal(_ context.Context, m diet.Meal) (diet.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	servings := make([]diet.FoodServing, len(m.Foods))
	for i, fs := range m.Foods {
		if _, ok := s.foods[fs.FoodID]; !ok {
			return diet.Meal{}, fmt.Errorf("food %s: %w", fs.FoodID, storage.ErrNotFound)
		}
		fs.ID = uuid.NewString()
		fs.Food = food.Food{}
		servings[i] = fs
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	for i := range servings {
		servings[i].MealID = m.ID
	}
	m.Foods = servings

	s.meals[m.ID] = m
	return s.expandMealLocked(m), nil
}

func (s *Store) GetMeal(_ context.Context, id string) (diet.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meals[id]
	if !ok {
		return diet.Meal{}, fmt.Errorf("meal %s: %w", id, storage.ErrNotFound)
	}
	return s.expandMealLocked(m), nil
}

func (s *Store) ListMeals(_ context.Context) ([]diet.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]diet.Meal, 0, len(s.meals))
	for _, m := range s.meals {
		result = append(result, s.expandMealLocked(m))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) AddFoodServing(_ context.Context, fs diet.FoodServing) (diet.FoodServing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meals[fs.MealID]
	if !ok {
		return diet.FoodServing{}, fmt.Errorf("meal %s: %w", fs.MealID, storage.ErrNotFound)
	}
	f, ok := s.foods[fs.FoodID]
	if !ok {
		return diet.FoodServing{}, fmt.Errorf("food %s: %w", fs.FoodID, storage.ErrNotFound)
	}

	fs.ID = uuid.NewString()
	fs.Food = food.Food{}
	m.Foods = append(m.Foods, fs)
	s.meals[m.ID] = m

	fs.Food = f
	return fs, nil
}

func (s *Store) ListMealFoods(_ context.Context, mealID string) ([]diet.FoodServing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meals[mealID]
	if !ok {
		return nil, fmt.Errorf("meal %s: %w", mealID, storage.ErrNotFound)
	}
	return s.expandMealLocked(m).Foods, nil
}

// FoodStore implementation ----------------------------------------------------

func (s *Store) CreateFood(_ context.Context, f food.Food) (food.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()

	s.foods[f.ID] = f
	return f, nil
}

func (s *Store) GetFood(_ context.Context, id string) (food.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.foods[id]
	if !ok {
		return food.Food{}, fmt.Errorf("food %s: %w", id, storage.ErrNotFound)
	}
	return f, nil
}

func (s *Store) ListFoods(_ context.Context) ([]food.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]food.Food, 0, len(s.foods))
	for _, f := range s.foods {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// helpers ---------------------------------------------------------------------

func cloneRoutine(rt routine.Routine) routine.Routine {
	rt.Exercises = append([]routine.Assignment(nil), rt.Exercises...)
	return rt
}

// expandMealLocked joins the meal's servings with the food catalog. Callers
// must hold at least a read lock.
func (s *Store) expandMealLocked(m diet.Meal) diet.Meal {
	servings := make([]diet.FoodServing, len(m.Foods))
	for i, fs := range m.Foods {
		fs.Food = s.foods[fs.FoodID]
		servings[i] = fs
	}
	m.Foods = servings
	return m
}

// expandDietLocked collects the meals attached to the diet. Callers must
// hold at least a read lock.
func (s *Store) expandDietLocked(d diet.Diet) diet.Diet {
	var meals []diet.Meal
	for _, m := range s.meals {
		if m.DietID == d.ID {
			meals = append(meals, s.expandMealLocked(m))
		}
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].ID < meals[j].ID })
	d.Meals = meals
	return d
}
