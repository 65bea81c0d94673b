package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/middleware"
	"github.com/fitstack/coachd/internal/services/diets"
	"github.com/fitstack/coachd/internal/services/exercises"
	"github.com/fitstack/coachd/internal/services/routines"
	"github.com/fitstack/coachd/internal/services/users"
	"github.com/fitstack/coachd/pkg/logger"
)

// Handler wires the domain services into HTTP routes.
type Handler struct {
	users     *users.Service
	routines  *routines.Service
	exercises *exercises.Service
	diets     *diets.Service
	log       *logger.Logger
}

// New creates the API handler.
func New(u *users.Service, r *routines.Service, e *exercises.Service, d *diets.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{users: u, routines: r, exercises: e, diets: d, log: log}
}

// RouterOptions tunes the middleware chain around the routes.
type RouterOptions struct {
	RateLimit *middleware.RateLimiter
}

// Router builds the full route table. Registration, login, health, and
// metrics are open; everything else requires a bearer token, and writes
// additionally require the trainer role.
func (h *Handler) Router(issuer *auth.Issuer, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Use(middleware.Logging(h.log))
	r.Use(middleware.Metrics)
	r.Use(middleware.Authenticator(issuer, "/healthz", "/metrics", "/auth/", "/auth/login"))
	if opts.RateLimit != nil {
		r.Use(opts.RateLimit.Middleware)
	}

	r.HandleFunc("/auth/", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", h.handleMe).Methods(http.MethodGet)

	trainerOnly := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireTrainer(fn)
	}

	r.Handle("/routines/", trainerOnly(h.handleCreateRoutine)).Methods(http.MethodPost)
	r.HandleFunc("/routines/", h.handleListRoutines).Methods(http.MethodGet)
	r.HandleFunc("/routines/{id}", h.handleGetRoutine).Methods(http.MethodGet)

	r.Handle("/exercises/", trainerOnly(h.handleCreateExercise)).Methods(http.MethodPost)
	r.HandleFunc("/exercises/", h.handleListExercises).Methods(http.MethodGet)
	r.HandleFunc("/exercises/{id}", h.handleGetExercise).Methods(http.MethodGet)
	r.HandleFunc("/exercises/{id}/progress", h.handleRecordProgress).Methods(http.MethodPost)
	r.HandleFunc("/exercises/{id}/progress", h.handleListProgress).Methods(http.MethodGet)

	r.Handle("/diets/", trainerOnly(h.handleCreateDiet)).Methods(http.MethodPost)
	r.HandleFunc("/diets/", h.handleListDiets).Methods(http.MethodGet)
	r.HandleFunc("/diets/{id}", h.handleGetDiet).Methods(http.MethodGet)

	r.Handle("/meals/", trainerOnly(h.handleCreateMeal)).Methods(http.MethodPost)
	r.HandleFunc("/meals/", h.handleListMeals).Methods(http.MethodGet)
	r.HandleFunc("/meals/{id}", h.handleGetMeal).Methods(http.MethodGet)

	r.Handle("/foods/", trainerOnly(h.handleCreateFood)).Methods(http.MethodPost)
	r.HandleFunc("/foods/", h.handleListFoods).Methods(http.MethodGet)
	r.Handle("/foods/meal/{meal_id}", trainerOnly(h.handleAddFoodToMeal)).Methods(http.MethodPost)
	r.HandleFunc("/foods/meal/{meal_id}", h.handleListMealFoods).Methods(http.MethodGet)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
