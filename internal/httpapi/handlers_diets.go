package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/middleware"
	"github.com/fitstack/coachd/internal/services/diets"
)

func (h *Handler) handleCreateDiet(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var in diets.CreateDietInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	d, err := h.diets.CreateDiet(r.Context(), ident, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleListDiets(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	list, err := h.diets.ListDiets(r.Context(), ident)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetDiet(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	d, err := h.diets.GetDiet(r.Context(), ident, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var in diets.CreateMealInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	m, err := h.diets.CreateMeal(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) handleListMeals(w http.ResponseWriter, r *http.Request) {
	list, err := h.diets.ListMeals(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetMeal(w http.ResponseWriter, r *http.Request) {
	m, err := h.diets.GetMeal(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleCreateFood(w http.ResponseWriter, r *http.Request) {
	var in diets.CreateFoodInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	f, err := h.diets.CreateFood(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *Handler) handleListFoods(w http.ResponseWriter, r *http.Request) {
	list, err := h.diets.ListFoods(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleAddFoodToMeal(w http.ResponseWriter, r *http.Request) {
	var in diets.ServingInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	fs, err := h.diets.AddFoodToMeal(r.Context(), mux.Vars(r)["meal_id"], in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fs)
}

func (h *Handler) handleListMealFoods(w http.ResponseWriter, r *http.Request) {
	servings, err := h.diets.ListMealFoods(r.Context(), mux.Vars(r)["meal_id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, servings)
}
