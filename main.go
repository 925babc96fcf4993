package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shutterHabitAPI/handlers"
	"shutterHabitAPI/middleware"
	"shutterHabitAPI/services"
)

var (
	dbPool              *pgxpool.Pool
	profileService      *services.ProfileService
	achievementService  *services.AchievementService
	activityService     *services.ActivityService
	courseService       *services.CourseService
	courseDetailService *services.CourseDetailService
	quizService         *services.QuizService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	profileService = services.NewProfileService(dbPool)
	achievementService = services.NewAchievementService(dbPool)
	activityService = services.NewActivityService(dbPool, profileService, achievementService)
	courseService = services.NewCourseService(dbPool)
	courseDetailService = services.NewCourseDetailService(dbPool)
	quizService = services.NewQuizService(dbPool, profileService, achievementService)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	profileHandler := handlers.NewProfileHandler(profileService)
	activityHandler := handlers.NewActivityHandler(activityService)
	courseHandler := handlers.NewCourseHandler(courseService, courseDetailService)
	quizHandler := handlers.NewQuizHandler(quizService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	webhookHandler := handlers.NewWebhookHandler(profileService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "shutterHabit-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)

	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile/summary", profileHandler.GetSummary).Methods("GET")

	protected.HandleFunc("/activities", activityHandler.GetDailyActivities).Methods("GET")
	protected.HandleFunc("/activities", activityHandler.RecordActivity).Methods("POST")
	protected.HandleFunc("/activities/date/{date}", activityHandler.GetActivityByDate).Methods("GET")
	protected.HandleFunc("/activities/{id}", activityHandler.DeleteActivity).Methods("DELETE")

	protected.HandleFunc("/courses", courseHandler.GetCourses).Methods("GET")
	protected.HandleFunc("/courses/progress", courseHandler.GetMyCourseProgress).Methods("GET")
	protected.HandleFunc("/courses/{id}", courseHandler.GetCourse).Methods("GET")
	protected.HandleFunc("/courses/{id}/content", courseHandler.GetCourseContent).Methods("GET")
	protected.HandleFunc("/courses/{id}/start", courseHandler.StartCourse).Methods("POST")
	protected.HandleFunc("/courses/{id}/progress", courseHandler.UpdateCourseProgress).Methods("PUT")
	protected.HandleFunc("/courses/{id}/weeks", courseHandler.GetCourseWeeks).Methods("GET")
	protected.HandleFunc("/courses/{id}/activities", courseHandler.GetCourseActivities).Methods("GET")
	protected.HandleFunc("/courses/{id}/project", courseHandler.GetCourseProject).Methods("GET")
	protected.HandleFunc("/weeks/{weekId}/activities", courseHandler.GetWeekActivities).Methods("GET")
	protected.HandleFunc("/projects/{projectId}/criteria", courseHandler.GetProjectCriteria).Methods("GET")
	protected.HandleFunc("/course-activities/completions", courseHandler.GetActivityCompletions).Methods("POST")
	protected.HandleFunc("/course-activities/toggle", courseHandler.ToggleActivityCompletion).Methods("POST")

	protected.HandleFunc("/quizzes", quizHandler.GetQuizzes).Methods("GET")
	protected.HandleFunc("/quizzes/attempts", quizHandler.GetMyAttempts).Methods("GET")
	protected.HandleFunc("/quizzes/{id}", quizHandler.GetQuiz).Methods("GET")
	protected.HandleFunc("/quizzes/{id}/attempts", quizHandler.SubmitAttempt).Methods("POST")
	protected.HandleFunc("/quizzes/{id}/best-attempt", quizHandler.GetBestAttempt).Methods("GET")

	protected.HandleFunc("/achievements", achievementHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/achievements/check", achievementHandler.CheckAchievements).Methods("POST")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
