package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/nivedh-git/attendsysbackend/config"
	"github.com/nivedh-git/attendsysbackend/database"
	"github.com/nivedh-git/attendsysbackend/handlers"
	"github.com/nivedh-git/attendsysbackend/repository"
	"github.com/nivedh-git/attendsysbackend/services"
	"github.com/nivedh-git/attendsysbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	identityRepo := repository.NewIdentityRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	selfRepo := repository.NewSelfAttendanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	sinks := []services.Notifier{services.NewStoreNotifier(notificationRepo)}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sinks = append(sinks, services.NewRedisNotifier(redisClient, cfg.RedisChannel))
		log.Printf("Realtime notification fan-out enabled via Redis at %s (channel %s)", cfg.RedisAddr, cfg.RedisChannel)
	}
	dispatcher := workers.NewNotificationDispatcher(
		services.NewMultiNotifier(sinks...), cfg.NotifyQueueSize, cfg.NumNotifyWorkers)
	defer dispatcher.Stop()

	matcher := services.NewMatcher(cfg.MatchThreshold)
	extractor := services.NewHTTPExtractor(cfg.ExtractorBaseURL)

	enrollmentService := services.NewEnrollmentService(identityRepo, templateRepo, rosterRepo, cfg.EmbeddingDim)
	attendanceService := services.NewSessionAttendanceService(
		sessionRepo, rosterRepo, templateRepo, attendanceRepo, matcher, dispatcher)
	selfService := services.NewSelfAttendanceService(templateRepo, selfRepo, matcher, dispatcher)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Match threshold (cosine distance): %g", cfg.MatchThreshold)
	log.Printf("Embedding dimensionality: %d", cfg.EmbeddingDim)
	log.Printf("Embedding extraction service: %s", cfg.ExtractorBaseURL)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	enrollmentHandler := &handlers.EnrollmentHandler{
		Enrollment:       enrollmentService,
		Extractor:        extractor,
		NotificationRepo: notificationRepo,
	}
	attendanceHandler := &handlers.AttendanceHandler{
		Service:   attendanceService,
		Extractor: extractor,
		SQLDB:     sqlDB,
	}
	selfHandler := &handlers.SelfAttendanceHandler{
		Service:   selfService,
		Extractor: extractor,
		SQLDB:     sqlDB,
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/identities", func(r chi.Router) {
			r.Post("/", enrollmentHandler.CreateIdentity)
			r.Get("/", enrollmentHandler.ListIdentities)
			r.Route("/{identity_id}", func(r chi.Router) {
				r.Get("/", enrollmentHandler.GetIdentity)
				r.Delete("/", enrollmentHandler.DeleteIdentity)
				r.Post("/template", enrollmentHandler.RegisterTemplate)
				r.Get("/notifications", enrollmentHandler.ListNotifications)
			})
		})

		r.Route("/classes/{class_id}/members", func(r chi.Router) {
			r.Post("/", enrollmentHandler.AddClassMember)
			r.Delete("/{identity_id}", enrollmentHandler.RemoveClassMember)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", attendanceHandler.CreateSession)
			r.Route("/{session_id}", func(r chi.Router) {
				r.Post("/probe", attendanceHandler.SubmitProbe)
				r.Post("/finalize", attendanceHandler.FinalizeSession)
				r.Get("/records", attendanceHandler.GetSessionRecords)
				r.Get("/summary", attendanceHandler.GetSessionSummary)
			})
		})

		r.Route("/self-attendance", func(r chi.Router) {
			r.Post("/", selfHandler.MarkSelf)
			r.Get("/{date}", selfHandler.ListForDate)
		})

		r.Put("/notifications/{notification_id}/read", enrollmentHandler.MarkNotificationRead)
	})

	server := &http.Server{Addr: cfg.ListenAddr, Handler: r}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Println("Shutting down...")
		server.Close()
	}()

	log.Printf("Starting server on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("FATAL: Server error: %v", err)
	}
}
