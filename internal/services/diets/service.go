// Package diets implements diet plans, their meals, and the food catalog
// meals draw from.
package diets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/domain/diet"
	"github.com/fitstack/coachd/internal/domain/food"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage"
	"github.com/fitstack/coachd/pkg/logger"
)

// Service manages diets, meals, and foods on behalf of an authenticated
// caller.
type Service struct {
	diets storage.DietStore
	foods storage.FoodStore
	users storage.UserStore
	log   *logger.Logger
}

// New creates a diet service.
func New(diets storage.DietStore, foods storage.FoodStore, users storage.UserStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("diets")
	}
	return &Service{diets: diets, foods: foods, users: users, log: log}
}

// CreateDietInput carries a diet creation request. Meals are created
// beforehand and attached by id.
type CreateDietInput struct {
	Name     string   `json:"name"`
	ClientID string   `json:"client_id"`
	MealIDs  []string `json:"meal_ids"`
}

// CreateDiet builds a diet owned by the calling trainer and attaches the
// listed meals. Nothing is written when any referenced record is missing.
func (s *Service) CreateDiet(ctx context.Context, ident auth.Identity, in CreateDietInput) (diet.Diet, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return diet.Diet{}, apperr.Validation("name is required")
	}
	if in.ClientID == "" {
		return diet.Diet{}, apperr.Validation("client_id is required")
	}

	client, err := s.users.GetUser(ctx, in.ClientID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return diet.Diet{}, apperr.NotFound("client not found")
		}
		return diet.Diet{}, apperr.Internal("loading client", err)
	}
	if client.Role != user.RoleClient {
		return diet.Diet{}, apperr.Validation("diets can only be assigned to clients")
	}

	for _, mealID := range in.MealIDs {
		if _, err := s.diets.GetMeal(ctx, mealID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return diet.Diet{}, apperr.NotFound(fmt.Sprintf("meal %s not found", mealID))
			}
			return diet.Diet{}, apperr.Internal("loading meal", err)
		}
	}

	created, err := s.diets.CreateDiet(ctx, diet.Diet{
		Name:      in.Name,
		TrainerID: ident.UserID,
		ClientID:  client.ID,
	}, in.MealIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return diet.Diet{}, apperr.NotFound("referenced record not found")
		}
		return diet.Diet{}, apperr.Internal("creating diet", err)
	}

	s.log.WithField("diet_id", created.ID).Info("diet created")
	return created, nil
}

// ListDiets returns the diets visible to the caller, ownership-scoped the
// same way routines are.
func (s *Service) ListDiets(ctx context.Context, ident auth.Identity) ([]diet.Diet, error) {
	var (
		diets []diet.Diet
		err   error
	)
	if ident.IsTrainer() {
		diets, err = s.diets.ListDietsByTrainer(ctx, ident.UserID)
	} else {
		diets, err = s.diets.ListDietsByClient(ctx, ident.UserID)
	}
	if err != nil {
		return nil, apperr.Internal("listing diets", err)
	}
	return diets, nil
}

// GetDiet returns a diet only to its trainer or its client.
func (s *Service) GetDiet(ctx context.Context, ident auth.Identity, id string) (diet.Diet, error) {
	d, err := s.diets.GetDiet(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return diet.Diet{}, apperr.NotFound("diet not found")
		}
		return diet.Diet{}, apperr.Internal("loading diet", err)
	}
	if d.TrainerID != ident.UserID && d.ClientID != ident.UserID {
		return diet.Diet{}, apperr.Forbidden("not your diet")
	}
	return d, nil
}

// ServingInput references one catalog food inside a meal.
type ServingInput struct {
	FoodID   string `json:"food_id"`
	Servings int    `json:"servings"`
}

// CreateMealInput carries a meal creation request with inline servings.
type CreateMealInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Foods       []ServingInput `json:"foods"`
}

// CreateMeal creates a standalone meal and its food servings in one
// write. The meal can be attached to a diet later.
func (s *Service) CreateMeal(ctx context.Context, in CreateMealInput) (diet.Meal, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return diet.Meal{}, apperr.Validation("name is required")
	}

	servings := make([]diet.FoodServing, 0, len(in.Foods))
	for i, f := range in.Foods {
		if f.Servings < 1 {
			return diet.Meal{}, apperr.Validation(fmt.Sprintf("food %d: servings must be at least 1", i))
		}
		if _, err := s.foods.GetFood(ctx, f.FoodID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return diet.Meal{}, apperr.NotFound(fmt.Sprintf("food %s not found", f.FoodID))
			}
			return diet.Meal{}, apperr.Internal("loading food", err)
		}
		servings = append(servings, diet.FoodServing{FoodID: f.FoodID, Servings: f.Servings})
	}

	created, err := s.diets.CreateMeal(ctx, diet.Meal{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Foods:       servings,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return diet.Meal{}, apperr.NotFound("referenced record not found")
		}
		return diet.Meal{}, apperr.Internal("creating meal", err)
	}

	s.log.WithField("meal_id", created.ID).Info("meal created")
	return created, nil
}

// GetMeal returns one meal with its servings expanded.
func (s *Service) GetMeal(ctx context.Context, id string) (diet.Meal, error) {
	m, err := s.diets.GetMeal(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return diet.Meal{}, apperr.NotFound("meal not found")
		}
		return diet.Meal{}, apperr.Internal("loading meal", err)
	}
	return m, nil
}

// ListMeals returns all meals.
func (s *Service) ListMeals(ctx context.Context) ([]diet.Meal, error) {
	meals, err := s.diets.ListMeals(ctx)
	if err != nil {
		return nil, apperr.Internal("listing meals", err)
	}
	return meals, nil
}

// CreateFoodInput carries a food catalog entry with its per-serving
// macro breakdown.
type CreateFoodInput struct {
	Name      string  `json:"name"`
	Serving   string  `json:"serving"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fats      float64 `json:"fats"`
	SourceURL string  `json:"source_url"`
}

// CreateFood adds a food to the catalog.
func (s *Service) CreateFood(ctx context.Context, in CreateFoodInput) (food.Food, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return food.Food{}, apperr.Validation("name is required")
	}
	if in.Calories < 0 || in.Protein < 0 || in.Carbs < 0 || in.Fats < 0 {
		return food.Food{}, apperr.Validation("macros must not be negative")
	}

	created, err := s.foods.CreateFood(ctx, food.Food{
		Name:      in.Name,
		Serving:   strings.TrimSpace(in.Serving),
		Calories:  in.Calories,
		Protein:   in.Protein,
		Carbs:     in.Carbs,
		Fats:      in.Fats,
		SourceURL: strings.TrimSpace(in.SourceURL),
	})
	if err != nil {
		return food.Food{}, apperr.Internal("creating food", err)
	}
	return created, nil
}

// ListFoods returns the whole food catalog.
func (s *Service) ListFoods(ctx context.Context) ([]food.Food, error) {
	foods, err := s.foods.ListFoods(ctx)
	if err != nil {
		return nil, apperr.Internal("listing foods", err)
	}
	return foods, nil
}

// AddFoodToMeal appends one food serving to an existing meal.
func (s *Service) AddFoodToMeal(ctx context.Context, mealID string, in ServingInput) (diet.FoodServing, error) {
	if in.Servings < 1 {
		return diet.FoodServing{}, apperr.Validation("servings must be at least 1")
	}
	if _, err := s.diets.GetMeal(ctx, mealID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return diet.FoodServing{}, apperr.NotFound("meal not found")
		}
		return diet.FoodServing{}, apperr.Internal("loading meal", err)
	}
	if _, err := s.foods.GetFood(ctx, in.FoodID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return diet.FoodServing{}, apperr.NotFound("food not found")
		}
		return diet.FoodServing{}, apperr.Internal("loading food", err)
	}

	fs, err := s.diets.AddFoodServing(ctx, diet.FoodServing{MealID: mealID, FoodID: in.FoodID, Servings: in.Servings})
	if err != nil {
		return diet.FoodServing{}, apperr.Internal("adding food to meal", err)
	}
	return fs, nil
}

// ListMealFoods returns the servings of one meal.
func (s *Service) ListMealFoods(ctx context.Context, mealID string) ([]diet.FoodServing, error) {
	if _, err := s.diets.GetMeal(ctx, mealID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("meal not found")
		}
		return nil, apperr.Internal("loading meal", err)
	}
	servings, err := s.diets.ListMealFoods(ctx, mealID)
	if err != nil {
		return nil, apperr.Internal("listing meal foods", err)
	}
	return servings, nil
}
