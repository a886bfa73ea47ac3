package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Desktoo/WorkEzy-demo/internal/config"
	"github.com/Desktoo/WorkEzy-demo/internal/handler"
	"github.com/Desktoo/WorkEzy-demo/internal/middleware"
	"github.com/Desktoo/WorkEzy-demo/internal/notifier"
	"github.com/Desktoo/WorkEzy-demo/internal/razorpay"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/internal/service"
	"github.com/Desktoo/WorkEzy-demo/internal/storage"
	"github.com/Desktoo/WorkEzy-demo/pkg/db"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
	"github.com/Desktoo/WorkEzy-demo/pkg/logger"
	"github.com/Desktoo/WorkEzy-demo/pkg/metrics"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.NewLogger("workezy-server")

	// Database connection
	dbPort, err := strconv.Atoi(cfg.Database.Port)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	conn, err := db.NewConnection(db.Config{
		Host:            cfg.Database.Host,
		Port:            dbPort,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()
	log.Info("Successfully connected to database")

	// Redis holds OTP state so restarts and multiple instances keep
	// in-flight codes valid.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	cancel()
	log.Info("Successfully connected to redis")

	// Metrics
	m := metrics.NewMetrics("workezy_server")
	m.StartDBPoolCollector(conn.DB, 15*time.Second)

	// Repositories
	employerRepo := repository.NewEmployerRepository(conn.DB)
	candidateRepo := repository.NewCandidateRepository(conn.DB)
	planRepo := repository.NewPlanRepository(conn.DB)
	paymentRepo := repository.NewPaymentRepository(conn.DB)
	jobRepo := repository.NewJobRepository(conn.DB)
	applicationRepo := repository.NewApplicationRepository(conn.DB)
	screeningRepo := repository.NewScreeningRepository(conn.DB)
	otpRepo := repository.NewOtpRepository(redisClient)

	// Gateway and delivery channels
	razorpayClient := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	storageClient := storage.NewClient(cfg.Storage.Endpoint, cfg.Storage.Bucket, cfg.Storage.APIKey)
	smsChannel := notifier.NewSMSChannel()
	emailChannel := notifier.NewEmailChannel()

	// Services
	tokenService := service.NewTokenService(cfg.Session.Secret, cfg.Session.TTL)
	authService := service.NewAuthService(otpRepo, employerRepo, candidateRepo, smsChannel, emailChannel, tokenService)
	employerService := service.NewEmployerService(employerRepo)
	candidateService := service.NewCandidateService(candidateRepo, storageClient)
	planService := service.NewPlanService(planRepo)
	paymentService := service.NewPaymentService(paymentRepo, planRepo, employerRepo, razorpayClient)
	jobService := service.NewJobService(conn.DB, jobRepo, paymentRepo, planRepo, screeningRepo)
	applicationService := service.NewApplicationService(conn.DB, applicationRepo, jobRepo, screeningRepo)
	screeningService := service.NewScreeningService(conn.DB, jobRepo, applicationRepo, screeningRepo)
	accountService := service.NewAccountService(conn.DB, employerRepo, jobRepo, paymentRepo, applicationRepo)

	// Handlers
	validator := helpers.NewCustomValidator()
	authHandler := handler.NewAuthHandler(authService, validator, log)
	employerHandler := handler.NewEmployerHandler(employerService, accountService, validator, log)
	candidateHandler := handler.NewCandidateHandler(candidateService, validator, log)
	planHandler := handler.NewPlanHandler(planService, log)
	paymentHandler := handler.NewPaymentHandler(paymentService, validator, log)
	jobHandler := handler.NewJobHandler(jobService, validator, log)
	applicationHandler := handler.NewApplicationHandler(applicationService, screeningService, validator, log)

	employerAuth := middleware.RequireEmployer(tokenService)
	candidateAuth := middleware.RequireCandidate(tokenService)
	otpThrottle := middleware.ThrottleMiddleware(10, time.Minute)

	mux := http.NewServeMux()

	// Auth
	mux.Handle("POST /api/auth/otp", otpThrottle(http.HandlerFunc(authHandler.SendOTP)))
	mux.Handle("POST /api/auth/otp/verify", otpThrottle(http.HandlerFunc(authHandler.VerifyOTP)))

	// Public
	mux.HandleFunc("POST /api/employers", employerHandler.Register)
	mux.HandleFunc("POST /api/candidates", candidateHandler.Register)
	mux.HandleFunc("GET /api/plans", planHandler.ListPlans)
	mux.HandleFunc("GET /api/public/jobs/{id}", jobHandler.GetPublicJob)

	// Employer
	mux.Handle("GET /api/employers/me", employerAuth(http.HandlerFunc(employerHandler.GetProfile)))
	mux.Handle("PUT /api/employers/me", employerAuth(http.HandlerFunc(employerHandler.UpdateProfile)))
	mux.Handle("DELETE /api/employers/me", employerAuth(http.HandlerFunc(employerHandler.DeleteAccount)))
	mux.Handle("POST /api/payments/order", employerAuth(http.HandlerFunc(paymentHandler.CreateOrder)))
	mux.Handle("POST /api/payments/verify", employerAuth(http.HandlerFunc(paymentHandler.VerifyPayment)))
	mux.Handle("GET /api/payments", employerAuth(http.HandlerFunc(paymentHandler.ListPayments)))
	mux.Handle("GET /api/jobs/can-post", employerAuth(http.HandlerFunc(jobHandler.CanPost)))
	mux.Handle("POST /api/jobs", employerAuth(http.HandlerFunc(jobHandler.CreateJob)))
	mux.Handle("GET /api/jobs", employerAuth(http.HandlerFunc(jobHandler.ListJobs)))
	mux.Handle("GET /api/jobs/{id}", employerAuth(http.HandlerFunc(jobHandler.GetJob)))
	mux.Handle("PUT /api/jobs/{id}", employerAuth(http.HandlerFunc(jobHandler.UpdateJob)))
	mux.Handle("POST /api/jobs/{id}/close", employerAuth(http.HandlerFunc(jobHandler.CloseJob)))
	mux.Handle("GET /api/jobs/{id}/applications", employerAuth(http.HandlerFunc(applicationHandler.ListByJob)))
	mux.Handle("POST /api/jobs/{id}/screening", employerAuth(http.HandlerFunc(applicationHandler.StartAiScreening)))
	mux.Handle("POST /api/applications/{id}/interested", employerAuth(http.HandlerFunc(applicationHandler.MarkInterested)))
	mux.Handle("POST /api/applications/{id}/evaluate", employerAuth(http.HandlerFunc(applicationHandler.EvaluateAiScreening)))

	// Candidate
	mux.Handle("GET /api/candidates/me", candidateAuth(http.HandlerFunc(candidateHandler.GetProfile)))
	mux.Handle("PUT /api/candidates/me", candidateAuth(http.HandlerFunc(candidateHandler.UpdateProfile)))
	mux.Handle("POST /api/candidates/me/resume", candidateAuth(http.HandlerFunc(candidateHandler.UploadResume)))
	mux.Handle("POST /api/jobs/{id}/apply", candidateAuth(http.HandlerFunc(applicationHandler.Apply)))
	mux.Handle("POST /api/applications/{id}/answers", candidateAuth(http.HandlerFunc(applicationHandler.SubmitAiAnswers)))

	// Operational
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	var root http.Handler = mux
	root = m.HTTPMiddleware(root)
	root = logger.HTTPMiddleware(log)(root)
	root = middleware.CORSMiddleware(cfg.Server.AllowedOrigins)(root)

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on :%s", cfg.Server.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
