package diets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/domain/food"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage/memory"
)

type fixture struct {
	svc      *Service
	store    *memory.Store
	trainer  auth.Identity
	client   auth.Identity
	clientID string
	oats     food.Food
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	trainer, err := store.CreateUser(ctx, user.User{Username: "alice", Email: "alice@example.com", Role: user.RoleTrainer})
	require.NoError(t, err)
	client, err := store.CreateUser(ctx, user.User{Username: "bob", Email: "bob@example.com", Role: user.RoleClient})
	require.NoError(t, err)
	oats, err := store.CreateFood(ctx, food.Food{Name: "Oats", Serving: "100g", Calories: 389, Protein: 16.9, Carbs: 66, Fats: 6.9})
	require.NoError(t, err)

	return &fixture{
		svc:      New(store, store, store, nil),
		store:    store,
		trainer:  auth.Identity{UserID: trainer.ID, Username: "alice", Role: user.RoleTrainer},
		client:   auth.Identity{UserID: client.ID, Username: "bob", Role: user.RoleClient},
		clientID: client.ID,
		oats:     oats,
	}
}

func TestCreateMealWithServings(t *testing.T) {
	f := newFixture(t)

	m, err := f.svc.CreateMeal(context.Background(), CreateMealInput{
		Name:  "Breakfast",
		Foods: []ServingInput{{FoodID: f.oats.ID, Servings: 2}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)
	require.Len(t, m.Foods, 1)
	require.Equal(t, 2, m.Foods[0].Servings)
	require.Equal(t, "Oats", m.Foods[0].Food.Name)
}

func TestCreateMealValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateMeal(ctx, CreateMealInput{Name: " "})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeValidation, appErr.Code)

	_, err = f.svc.CreateMeal(ctx, CreateMealInput{
		Name:  "Lunch",
		Foods: []ServingInput{{FoodID: f.oats.ID, Servings: 0}},
	})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeValidation, appErr.Code)

	_, err = f.svc.CreateMeal(ctx, CreateMealInput{
		Name:  "Lunch",
		Foods: []ServingInput{{FoodID: "missing", Servings: 1}},
	})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeNotFound, appErr.Code)

	// A failed reference check must not leave a meal behind.
	meals, listErr := f.svc.ListMeals(ctx)
	require.NoError(t, listErr)
	require.Empty(t, meals)
}

func TestCreateDietAttachesMeals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.CreateMeal(ctx, CreateMealInput{Name: "Breakfast", Foods: []ServingInput{{FoodID: f.oats.ID, Servings: 1}}})
	require.NoError(t, err)

	d, err := f.svc.CreateDiet(ctx, f.trainer, CreateDietInput{
		Name:     "Cut",
		ClientID: f.clientID,
		MealIDs:  []string{m.ID},
	})
	require.NoError(t, err)
	require.Equal(t, f.trainer.UserID, d.TrainerID)
	require.Len(t, d.Meals, 1)
	require.Equal(t, d.ID, d.Meals[0].DietID)
	require.Len(t, d.Meals[0].Foods, 1)
}

func TestCreateDietUnknownMeal(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateDiet(context.Background(), f.trainer, CreateDietInput{
		Name:     "Cut",
		ClientID: f.clientID,
		MealIDs:  []string{"missing"},
	})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeNotFound, appErr.Code)
}

func TestCreateDietClientChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateDiet(ctx, f.trainer, CreateDietInput{Name: "Cut", ClientID: "missing"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeNotFound, appErr.Code)

	_, err = f.svc.CreateDiet(ctx, f.trainer, CreateDietInput{Name: "Cut", ClientID: f.trainer.UserID})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestListDietsScopedByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateDiet(ctx, f.trainer, CreateDietInput{Name: "Cut", ClientID: f.clientID})
	require.NoError(t, err)

	stranger, err := f.store.CreateUser(ctx, user.User{Username: "carol", Email: "carol@example.com", Role: user.RoleClient})
	require.NoError(t, err)

	forTrainer, err := f.svc.ListDiets(ctx, f.trainer)
	require.NoError(t, err)
	require.Len(t, forTrainer, 1)

	forClient, err := f.svc.ListDiets(ctx, f.client)
	require.NoError(t, err)
	require.Len(t, forClient, 1)

	forStranger, err := f.svc.ListDiets(ctx, auth.Identity{UserID: stranger.ID, Role: user.RoleClient})
	require.NoError(t, err)
	require.Empty(t, forStranger)
}

func TestGetDietEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.CreateDiet(ctx, f.trainer, CreateDietInput{Name: "Cut", ClientID: f.clientID})
	require.NoError(t, err)

	_, err = f.svc.GetDiet(ctx, f.client, d.ID)
	require.NoError(t, err)

	stranger, err := f.store.CreateUser(ctx, user.User{Username: "carol", Email: "carol@example.com", Role: user.RoleClient})
	require.NoError(t, err)

	_, err = f.svc.GetDiet(ctx, auth.Identity{UserID: stranger.ID, Role: user.RoleClient}, d.ID)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeForbidden, appErr.Code)
}

func TestAddFoodToMeal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.CreateMeal(ctx, CreateMealInput{Name: "Dinner"})
	require.NoError(t, err)

	fs, err := f.svc.AddFoodToMeal(ctx, m.ID, ServingInput{FoodID: f.oats.ID, Servings: 3})
	require.NoError(t, err)
	require.Equal(t, 3, fs.Servings)
	require.Equal(t, "Oats", fs.Food.Name)

	servings, err := f.svc.ListMealFoods(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, servings, 1)

	_, err = f.svc.AddFoodToMeal(ctx, "missing", ServingInput{FoodID: f.oats.ID, Servings: 1})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeNotFound, appErr.Code)
}

func TestCreateFoodValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateFood(ctx, CreateFoodInput{Name: "Rice", Calories: -10})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeValidation, appErr.Code)

	created, err := f.svc.CreateFood(ctx, CreateFoodInput{Name: "Rice", Serving: "100g", Calories: 130})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
}
