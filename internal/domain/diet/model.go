// Package diet models diets, the meals that compose them, and the food
// servings inside each meal.
package diet

import (
	"time"

	"github.com/fitstack/coachd/internal/domain/food"
)

// FoodServing links a food into a meal with a serving-count multiplier.
type FoodServing struct {
	ID       string    `db:"id" json:"id"`
	MealID   string    `db:"meal_id" json:"meal_id"`
	FoodID   string    `db:"food_id" json:"food_id"`
	Servings int       `db:"servings" json:"servings"`
	Food     food.Food `db:"-" json:"food"`
}

// Meal is a named collection of food servings. DietID is empty until the
// meal is attached to a diet.
type Meal struct {
	ID          string        `db:"id" json:"id"`
	DietID      string        `db:"diet_id" json:"diet_id,omitempty"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description,omitempty"`
	Foods       []FoodServing `db:"-" json:"foods"`
}

// Diet is created by exactly one trainer for exactly one client and is
// visible only to those two users.
type Diet struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TrainerID string    `db:"trainer_id" json:"trainer_id"`
	ClientID  string    `db:"client_id" json:"client_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Meals     []Meal    `db:"-" json:"meals"`
}
