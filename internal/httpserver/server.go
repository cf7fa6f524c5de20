package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/meal-hub/internal/ai"
	"github.com/fdg312/meal-hub/internal/auth"
	"github.com/fdg312/meal-hub/internal/blob"
	"github.com/fdg312/meal-hub/internal/config"
	"github.com/fdg312/meal-hub/internal/feedback"
	"github.com/fdg312/meal-hub/internal/nutrition"
	"github.com/fdg312/meal-hub/internal/plans"
	"github.com/fdg312/meal-hub/internal/recipes"
	"github.com/fdg312/meal-hub/internal/reports"
	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/fdg312/meal-hub/internal/storage/memory"
	"github.com/fdg312/meal-hub/internal/storage/postgres"
	"github.com/fdg312/meal-hub/internal/users"
)

// Server is the HTTP server with all services wired up.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New creates a server, initializing storage and registering routes.
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage connects to Postgres when configured, otherwise falls back
// to in-memory storage.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Connecting to PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("PostgreSQL connection failed: %v", err)
		log.Println("Falling back to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("PostgreSQL connected")
	s.storage = pgStorage
}

// routes registers all routes.
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config, s.storage.GetUsersStorage())
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Users API
	userService := users.NewService(s.storage.GetUsersStorage())
	userHandler := users.NewHandler(userService)
	s.mux.HandleFunc("GET /v1/users/me", userHandler.HandleGetMe)
	s.mux.HandleFunc("PUT /v1/users/me", userHandler.HandleUpdateMe)

	// Recipes API
	recipeService := recipes.NewService(s.storage.GetRecipesStorage())
	recipeHandler := recipes.NewHandler(recipeService)
	s.mux.HandleFunc("POST /v1/recipes", recipeHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/recipes", recipeHandler.HandleList)
	s.mux.HandleFunc("GET /v1/recipes/{id}", recipeHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/recipes/{id}", recipeHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/recipes/{id}", recipeHandler.HandleDelete)

	// Feedback API
	feedbackService := feedback.NewService(s.storage.GetFeedbackStorage(), s.storage.GetRecipesStorage())
	feedbackHandler := feedback.NewHandler(feedbackService)
	s.mux.HandleFunc("POST /v1/recipes/{id}/feedback", feedbackHandler.HandleUpsert)
	s.mux.HandleFunc("POST /v1/recipes/{id}/cooked", feedbackHandler.HandleMarkCooked)
	s.mux.HandleFunc("POST /v1/recipes/{id}/skipped", feedbackHandler.HandleMarkSkipped)
	s.mux.HandleFunc("GET /v1/feedback", feedbackHandler.HandleList)

	// Nutrition Targets API
	nutritionService := nutrition.NewService(s.storage.GetNutritionTargetsStorage())
	nutritionHandler := nutrition.NewHandler(nutritionService)
	s.mux.HandleFunc("GET /v1/nutrition/targets", nutritionHandler.HandleGetTargets)
	s.mux.HandleFunc("PUT /v1/nutrition/targets", nutritionHandler.HandleUpsertTargets)
	s.mux.HandleFunc("DELETE /v1/nutrition/targets", nutritionHandler.HandleDeleteTargets)

	// Meal Plans API
	aiProvider := ai.NewProvider(s.config)
	planService := plans.NewService(plans.Options{
		Plans:         s.storage.GetMealPlansStorage(),
		Users:         s.storage.GetUsersStorage(),
		Recipes:       recipeService,
		Feedback:      feedbackService,
		Nutrition:     nutritionService,
		Provider:      aiProvider,
		MinCandidates: s.config.PlannerMinCandidates,
	})
	planHandler := plans.NewHandler(planService)
	s.mux.HandleFunc("POST /v1/plans/generate", planHandler.HandleGenerate)
	s.mux.HandleFunc("GET /v1/plans", planHandler.HandleList)
	s.mux.HandleFunc("GET /v1/plans/{id}", planHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/plans/{id}/export", planHandler.HandleExport)
	s.mux.HandleFunc("DELETE /v1/plans/{id}", planHandler.HandleDelete)
	s.mux.HandleFunc("POST /v1/plans/{id}/optimize", planHandler.HandleOptimize)

	// Reports API
	reportsService := reports.NewService(
		s.storage.GetReportsStorage(),
		planService,
		reports.NewGenerator(recipeService),
		s.initBlobStore(),
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	reportsHandler := reports.NewHandlers(reportsService)
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// initBlobStore initializes the blob store for report bodies. REPORTS_MODE
// may override BLOB_MODE; a nil store means local mode.
func (s *Server) initBlobStore() blob.Store {
	cfg := s.config.Blob
	cfg.Mode = s.config.Blob.EffectiveReportsMode()
	cfg.ReportsModeSet = false
	cfg.ReportsMode = cfg.Mode

	store, mode, err := blob.NewBlobStore(cfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}
	log.Printf("INFO blob: reports blob mode: %s", mode)
	return store
}

// handleHealthz reports server status.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS -> Rate Limit -> Auth -> Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Server listening on http://localhost%s", addr)
	log.Printf("Health check: http://localhost%s/healthz", addr)

	return http.ListenAndServe(addr, handler)
}

// Close releases storage resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
