package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	adjustPlayersHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/adjust_players"
	cancelBookingHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/cancel_booking"
	compileWindowsHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/compile_windows"
	createBookingHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/create_booking"
	generateSlotsHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/generate_slots"
	getBookingHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/get_user_bookings"
	joinWaitlistHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/join_waitlist"
	listTeeTimesHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/list_tee_times"
	manageClosuresHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/manage_closures"
	promoteWaitlistHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/promote_waitlist"
	publishVersionHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/publish_version"
	rescheduleBookingHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/reschedule_booking"
	resolveWindowsHandler "github.com/fairwaylabs/teesheet-service/internal/api/handlers/resolve_windows"
	"github.com/fairwaylabs/teesheet-service/internal/api/middleware"
	"github.com/fairwaylabs/teesheet-service/internal/config"
	"github.com/fairwaylabs/teesheet-service/internal/infra/offerstore"
	bookingRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/booking"
	scheduleRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/schedule"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	teetimeRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/teetime"
	waitlistRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/waitlist"
	bookingsService "github.com/fairwaylabs/teesheet-service/internal/service/bookings"
	scheduleService "github.com/fairwaylabs/teesheet-service/internal/service/schedule"
	windowsService "github.com/fairwaylabs/teesheet-service/internal/service/windows"
	createBookingUC "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
	generateSlotsUC "github.com/fairwaylabs/teesheet-service/internal/usecase/generate_slots"
	joinWaitlistUC "github.com/fairwaylabs/teesheet-service/internal/usecase/join_waitlist"
	listTeeTimesUC "github.com/fairwaylabs/teesheet-service/internal/usecase/list_tee_times"
	promoteWaitlistUC "github.com/fairwaylabs/teesheet-service/internal/usecase/promote_waitlist"
	rescheduleBookingUC "github.com/fairwaylabs/teesheet-service/internal/usecase/reschedule_booking"
	"github.com/fairwaylabs/teesheet-service/pkg/dbmetrics"
	"github.com/fairwaylabs/teesheet-service/pkg/logger"
	"github.com/fairwaylabs/teesheet-service/pkg/metrics"
	"github.com/fairwaylabs/teesheet-service/pkg/simpletxmanager"
	"github.com/fairwaylabs/teesheet-service/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting teesheet-service...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		log.Fatal("Failed to ping redis: %v", err)
	}
	cancelPing()
	log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)

	// Repositories and the transaction manager share the same executor so
	// tx-in-context plumbing works end to end.
	var (
		sheetRepository    *sheetRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		teeTimeRepository  *teetimeRepo.Repository
		bookingRepository  *bookingRepo.Repository
		waitlistRepository *waitlistRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		sheetRepository = sheetRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		teeTimeRepository = teetimeRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		waitlistRepository = waitlistRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		sheetRepository = sheetRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		teeTimeRepository = teetimeRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		waitlistRepository = waitlistRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	offerStore := offerstore.New(redisClient, time.Duration(cfg.Booking.WaitlistOfferTTLMinutes)*time.Minute)

	windowSvc := windowsService.NewService(
		sheetRepository,
		scheduleRepository,
		windowsService.NewSunriseAdapter(),
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		sheetRepository,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		teeTimeRepository,
		scheduleRepository,
		sheetRepository,
		txMgr,
		cfg.Booking.DefaultCancelCutoffHours,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		teeTimeRepository,
		scheduleRepository,
		sheetRepository,
		txMgr,
		log,
	)
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		windowSvc,
		teeTimeRepository,
		scheduleRepository,
		sheetRepository,
		txMgr,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		teeTimeRepository,
		scheduleRepository,
		sheetRepository,
		txMgr,
		log,
	)
	listTeeTimesUseCase := listTeeTimesUC.NewUseCase(
		sheetRepository,
		teeTimeRepository,
		log,
	)
	joinWaitlistUseCase := joinWaitlistUC.NewUseCase(
		waitlistRepository,
		teeTimeRepository,
		offerStore,
		createBookingUseCase,
		log,
	)
	promoteWaitlistUseCase := promoteWaitlistUC.NewUseCase(
		waitlistRepository,
		teeTimeRepository,
		createBookingUseCase,
		log,
	)

	resolveWindows := resolveWindowsHandler.NewHandler(windowSvc, log)
	compileWindows := compileWindowsHandler.NewHandler(windowSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	listTeeTimes := listTeeTimesHandler.NewHandler(listTeeTimesUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	adjustPlayers := adjustPlayersHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(joinWaitlistUseCase, log)
	promoteWaitlist := promoteWaitlistHandler.NewHandler(promoteWaitlistUseCase, log)
	publishVersion := publishVersionHandler.NewHandler(scheduleSvc, log)
	manageClosures := manageClosuresHandler.NewHandler(scheduleSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes: window and slot visibility.
	api.HandleFunc("/sheets/{sheetId}/windows", resolveWindows.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sheets/{sheetId}/windows/compiled", compileWindows.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sheets/{sheetId}/tee-times", listTeeTimes.Handle).Methods(http.MethodGet)

	// Protected routes require the X-User-ID header.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/players", adjustPlayers.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/waitlist", joinWaitlist.HandleJoin).Methods(http.MethodPost)
	protected.HandleFunc("/waitlist/accept", joinWaitlist.HandleAccept).Methods(http.MethodPost)
	protected.HandleFunc("/waitlist/{waitlistId}/promote", promoteWaitlist.Handle).Methods(http.MethodPost)

	// Staff operations: generation, publication, closures.
	protected.HandleFunc("/sheets/{sheetId}/slots/generate", generateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sheets/{sheetId}/closures", manageClosures.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/closures/{closureId}", manageClosures.HandleDelete).Methods(http.MethodDelete)
	protected.HandleFunc("/templates/{templateId}/versions/{versionId}/publish",
		publishVersion.HandleTemplate).Methods(http.MethodPost)
	protected.HandleFunc("/seasons/{seasonId}/versions/{versionId}/publish",
		publishVersion.HandleSeason).Methods(http.MethodPost)
	protected.HandleFunc("/overrides/{overrideId}/versions/{versionId}/publish",
		publishVersion.HandleOverride).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
