// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitstack/coachd/internal/domain/diet"
	"github.com/fitstack/coachd/internal/domain/exercise"
	"github.com/fitstack/coachd/internal/domain/food"
	"github.com/fitstack/coachd/internal/domain/routine"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage"
)

// Store implements the storage interfaces on a sqlx database handle. Each
// multi-row write runs in one transaction so a failed reference check never
// leaves a partial row behind.
type Store struct {
	db *sqlx.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.RoutineStore = (*Store)(nil)
var _ storage.ExerciseStore = (*Store)(nil)
var _ storage.DietStore = (*Store)(nil)
var _ storage.FoodStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// mapError converts driver errors into the storage sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w", storage.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", pqErr.Constraint, storage.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", pqErr.Constraint, storage.ErrNotFound)
		}
	}
	return err
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, first_name, last_name,
		                   birth_date, height_cm, weight_kg, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName,
		u.BirthDate, u.HeightCM, u.WeightKG, u.Gender, u.CreatedAt)
	if err != nil {
		return user.User{}, mapError(err)
	}
	return u, nil
}

const selectUser = `
	SELECT id, username, email, password_hash, role, first_name, last_name,
	       birth_date, height_cm, weight_kg, gender, created_at
	FROM users
`

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var u user.User
	if err := s.db.GetContext(ctx, &u, selectUser+`WHERE id = $1`, id); err != nil {
		return user.User{}, mapError(err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User
	if err := s.db.GetContext(ctx, &u, selectUser+`WHERE username = $1`, username); err != nil {
		return user.User{}, mapError(err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	if err := s.db.GetContext(ctx, &u, selectUser+`WHERE email = $1`, email); err != nil {
		return user.User{}, mapError(err)
	}
	return u, nil
}

// RoutineStore implementation -------------------------------------------------

func (s *Store) CreateRoutine(ctx context.Context, rt routine.Routine) (routine.Routine, error) {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	rt.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return routine.Routine{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO routines (id, name, description, trainer_id, client_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rt.ID, rt.Name, rt.Description, rt.TrainerID, rt.ClientID, rt.CreatedAt)
	if err != nil {
		return routine.Routine{}, mapError(err)
	}

	assignments := make([]routine.Assignment, len(rt.Exercises))
	for i, a := range rt.Exercises {
		a.ID = uuid.NewString()
		a.RoutineID = rt.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO routine_exercises (id, routine_id, exercise_id, reps_min, reps_max, sets)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, a.ID, a.RoutineID, a.ExerciseID, a.RepsMin, a.RepsMax, a.Sets)
		if err != nil {
			return routine.Routine{}, mapError(err)
		}
		assignments[i] = a
	}
	rt.Exercises = assignments

	if err := tx.Commit(); err != nil {
		return routine.Routine{}, err
	}
	return rt, nil
}

func (s *Store) GetRoutine(ctx context.Context, id string) (routine.Routine, error) {
	var rt routine.Routine
	err := s.db.GetContext(ctx, &rt, `
		SELECT id, name, description, trainer_id, client_id, created_at
		FROM routines WHERE id = $1
	`, id)
	if err != nil {
		return routine.Routine{}, mapError(err)
	}
	if err := s.loadAssignments(ctx, &rt); err != nil {
		return routine.Routine{}, err
	}
	return rt, nil
}

func (s *Store) ListRoutinesByTrainer(ctx context.Context, trainerID string) ([]routine.Routine, error) {
	return s.listRoutines(ctx, `trainer_id = $1`, trainerID)
}

func (s *Store) ListRoutinesByClient(ctx context.Context, clientID string) ([]routine.Routine, error) {
	return s.listRoutines(ctx, `client_id = $1`, clientID)
}

func (s *Store) listRoutines(ctx context.Context, where, arg string) ([]routine.Routine, error) {
	var routines []routine.Routine
	err := s.db.SelectContext(ctx, &routines, `
		SELECT id, name, description, trainer_id, client_id, created_at
		FROM routines WHERE `+where+` ORDER BY created_at
	`, arg)
	if err != nil {
		return nil, mapError(err)
	}
	for i := range routines {
		if err := s.loadAssignments(ctx, &routines[i]); err != nil {
			return nil, err
		}
	}
	return routines, nil
}

func (s *Store) loadAssignments(ctx context.Context, rt *routine.Routine) error {
	err := s.db.SelectContext(ctx, &rt.Exercises, `
		SELECT id, routine_id, exercise_id, reps_min, reps_max, sets
		FROM routine_exercises WHERE routine_id = $1 ORDER BY id
	`, rt.ID)
	return mapError(err)
}

// ExerciseStore implementation ------------------------------------------------

func (s *Store) CreateExercise(ctx context.Context, ex exercise.Exercise) (exercise.Exercise, error) {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	ex.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exercises (id, name, description, video_url, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ex.ID, ex.Name, ex.Description, ex.VideoURL, ex.Comment, ex.CreatedAt)
	if err != nil {
		return exercise.Exercise{}, mapError(err)
	}
	return ex, nil
}

func (s *Store) GetExercise(ctx context.Context, id string) (exercise.Exercise, error) {
	var ex exercise.Exercise
	err := s.db.GetContext(ctx, &ex, `
		SELECT id, name, description, video_url, comment, created_at
		FROM exercises WHERE id = $1
	`, id)
	if err != nil {
		return exercise.Exercise{}, mapError(err)
	}
	return ex, nil
}

func (s *Store) ListExercises(ctx context.Context) ([]exercise.Exercise, error) {
	var exercises []exercise.Exercise
	err := s.db.SelectContext(ctx, &exercises, `
		SELECT id, name, description, video_url, comment, created_at
		FROM exercises ORDER BY created_at
	`)
	return exercises, mapError(err)
}

func (s *Store) CreateProgress(ctx context.Context, p exercise.Progress) (exercise.Progress, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.RecordedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exercise_progress (id, exercise_id, user_id, weight_kg, repetitions, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.ExerciseID, p.UserID, p.WeightKG, p.Repetitions, p.RecordedAt)
	if err != nil {
		return exercise.Progress{}, mapError(err)
	}
	return p, nil
}

func (s *Store) ListProgress(ctx context.Context, exerciseID, userID string) ([]exercise.Progress, error) {
	var entries []exercise.Progress
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, exercise_id, user_id, weight_kg, repetitions, recorded_at
		FROM exercise_progress WHERE exercise_id = $1 AND user_id = $2
		ORDER BY recorded_at
	`, exerciseID, userID)
	return entries, mapError(err)
}

// DietStore implementation ----------------------------------------------------

func (s *Store) CreateDiet(ctx context.Context, d diet.Diet, mealIDs []string) (diet.Diet, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return diet.Diet{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO diets (id, name, trainer_id, client_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, d.ID, d.Name, d.TrainerID, d.ClientID, d.CreatedAt)
	if err != nil {
		return diet.Diet{}, mapError(err)
	}

	for _, mealID := range mealIDs {
		res, err := tx.ExecContext(ctx, `UPDATE meals SET diet_id = $1 WHERE id = $2`, d.ID, mealID)
		if err != nil {
			return diet.Diet{}, mapError(err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return diet.Diet{}, fmt.Errorf("meal %s: %w", mealID, storage.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return diet.Diet{}, err
	}
	return s.GetDiet(ctx, d.ID)
}

func (s *Store) GetDiet(ctx context.Context, id string) (diet.Diet, error) {
	var d diet.Diet
	err := s.db.GetContext(ctx, &d, `
		SELECT id, name, trainer_id, client_id, created_at
		FROM diets WHERE id = $1
	`, id)
	if err != nil {
		return diet.Diet{}, mapError(err)
	}
	if err := s.loadDietMeals(ctx, &d); err != nil {
		return diet.Diet{}, err
	}
	return d, nil
}

func (s *Store) ListDietsByTrainer(ctx context.Context, trainerID string) ([]diet.Diet, error) {
	return s.listDiets(ctx, `trainer_id = $1`, trainerID)
}

func (s *Store) ListDietsByClient(ctx context.Context, clientID string) ([]diet.Diet, error) {
	return s.listDiets(ctx, `client_id = $1`, clientID)
}

func (s *Store) listDiets(ctx context.Context, where, arg string) ([]diet.Diet, error) {
	var diets []diet.Diet
	err := s.db.SelectContext(ctx, &diets, `
		SELECT id, name, trainer_id, client_id, created_at
		FROM diets WHERE `+where+` ORDER BY created_at
	`, arg)
	if err != nil {
		return nil, mapError(err)
	}
	for i := range diets {
		if err := s.loadDietMeals(ctx, &diets[i]); err != nil {
			return nil, err
		}
	}
	return diets, nil
}

func (s *Store) loadDietMeals(ctx context.Context, d *diet.Diet) error {
	err := s.db.SelectContext(ctx, &d.Meals, `
		SELECT id, COALESCE(diet_id, '') AS diet_id, name, description
		FROM meals WHERE diet_id = $1 ORDER BY id
	`, d.ID)
	if err != nil {
		return mapError(err)
	}
	for i := range d.Meals {
		foods, err := s.ListMealFoods(ctx, d.Meals[i].ID)
		if err != nil {
			return err
		}
		d.Meals[i].Foods = foods
	}
	return nil
}

func (s *Store) CreateMeal(ctx context.Context, m diet.Meal) (diet.Meal, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return diet.Meal{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meals (id, diet_id, name, description)
		VALUES ($1, NULLIF($2, ''), $3, $4)
	`, m.ID, m.DietID, m.Name, m.Description)
	if err != nil {
		return diet.Meal{}, mapError(err)
	}

	for _, fs := range m.Foods {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO meal_foods (id, meal_id, food_id, servings)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), m.ID, fs.FoodID, fs.Servings)
		if err != nil {
			return diet.Meal{}, mapError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return diet.Meal{}, err
	}
	return s.GetMeal(ctx, m.ID)
}

func (s *Store) GetMeal(ctx context.Context, id string) (diet.Meal, error) {
	var m diet.Meal
	err := s.db.GetContext(ctx, &m, `
		SELECT id, COALESCE(diet_id, '') AS diet_id, name, description
		FROM meals WHERE id = $1
	`, id)
	if err != nil {
		return diet.Meal{}, mapError(err)
	}
	foods, err := s.ListMealFoods(ctx, m.ID)
	if err != nil {
		return diet.Meal{}, err
	}
	m.Foods = foods
	return m, nil
}

func (s *Store) ListMeals(ctx context.Context) ([]diet.Meal, error) {
	var meals []diet.Meal
	err := s.db.SelectContext(ctx, &meals, `
		SELECT id, COALESCE(diet_id, '') AS diet_id, name, description
		FROM meals ORDER BY id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	for i := range meals {
		foods, err := s.ListMealFoods(ctx, meals[i].ID)
		if err != nil {
			return nil, err
		}
		meals[i].Foods = foods
	}
	return meals, nil
}

func (s *Store) AddFoodServing(ctx context.Context, fs diet.FoodServing) (diet.FoodServing, error) {
	fs.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meal_foods (id, meal_id, food_id, servings)
		VALUES ($1, $2, $3, $4)
	`, fs.ID, fs.MealID, fs.FoodID, fs.Servings)
	if err != nil {
		return diet.FoodServing{}, mapError(err)
	}

	f, err := s.GetFood(ctx, fs.FoodID)
	if err != nil {
		return diet.FoodServing{}, err
	}
	fs.Food = f
	return fs, nil
}

type mealFoodRow struct {
	ID       string  `db:"id"`
	MealID   string  `db:"meal_id"`
	FoodID   string  `db:"food_id"`
	Servings int     `db:"servings"`
	Name     string  `db:"name"`
	Serving  string  `db:"serving"`
	Calories float64 `db:"calories"`
	Protein  float64 `db:"protein"`
	Carbs    float64 `db:"carbs"`
	Fats     float64 `db:"fats"`
	Source   string  `db:"source_url"`
}

func (s *Store) ListMealFoods(ctx context.Context, mealID string) ([]diet.FoodServing, error) {
	var rows []mealFoodRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT mf.id, mf.meal_id, mf.food_id, mf.servings,
		       f.name, f.serving, f.calories, f.protein, f.carbs, f.fats, f.source_url
		FROM meal_foods mf
		JOIN foods f ON f.id = mf.food_id
		WHERE mf.meal_id = $1
		ORDER BY mf.id
	`, mealID)
	if err != nil {
		return nil, mapError(err)
	}

	servings := make([]diet.FoodServing, len(rows))
	for i, row := range rows {
		servings[i] = diet.FoodServing{
			ID:       row.ID,
			MealID:   row.MealID,
			FoodID:   row.FoodID,
			Servings: row.Servings,
			Food: food.Food{
				ID:        row.FoodID,
				Name:      row.Name,
				Serving:   row.Serving,
				Calories:  row.Calories,
				Protein:   row.Protein,
				Carbs:     row.Carbs,
				Fats:      row.Fats,
				SourceURL: row.Source,
			},
		}
	}
	return servings, nil
}

// FoodStore implementation ----------------------------------------------------

func (s *Store) CreateFood(ctx context.Context, f food.Food) (food.Food, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO foods (id, name, serving, calories, protein, carbs, fats, source_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, f.ID, f.Name, f.Serving, f.Calories, f.Protein, f.Carbs, f.Fats, f.SourceURL, f.CreatedAt)
	if err != nil {
		return food.Food{}, mapError(err)
	}
	return f, nil
}

func (s *Store) GetFood(ctx context.Context, id string) (food.Food, error) {
	var f food.Food
	err := s.db.GetContext(ctx, &f, `
		SELECT id, name, serving, calories, protein, carbs, fats, source_url, created_at
		FROM foods WHERE id = $1
	`, id)
	if err != nil {
		return food.Food{}, mapError(err)
	}
	return f, nil
}

func (s *Store) ListFoods(ctx context.Context) ([]food.Food, error) {
	var foods []food.Food
	err := s.db.SelectContext(ctx, &foods, `
		SELECT id, name, serving, calories, protein, carbs, fats, source_url, created_at
		FROM foods ORDER BY created_at
	`)
	return foods, mapError(err)
}
