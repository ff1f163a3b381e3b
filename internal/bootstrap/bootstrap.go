package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/uniportal/internal/app/auth"
	appControllers "github.com/yigit/uniportal/internal/app/controllers"
	appMigrations "github.com/yigit/uniportal/internal/app/migrations"
	appRepos "github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/app/repositories/inmem"
	appRoutes "github.com/yigit/uniportal/internal/app/routes"
	appServices "github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/config"
	"github.com/yigit/uniportal/internal/db"
	appMiddleware "github.com/yigit/uniportal/internal/middleware"
	pkgAuth "github.com/yigit/uniportal/internal/pkg/auth"
	"github.com/yigit/uniportal/internal/pkg/email"
	"github.com/yigit/uniportal/internal/pkg/helpers"
	"github.com/yigit/uniportal/internal/pkg/logger"
	"github.com/yigit/uniportal/internal/pkg/validation"
	"github.com/yigit/uniportal/internal/seed"
)

// Storage is the selected persistence backend. Postgres is nil for the memory driver.
type Storage struct {
	Store    *appRepos.Store
	Postgres *db.PostgresDB
}

// Close releases the database pool when there is one
func (s *Storage) Close() {
	if s != nil && s.Postgres != nil {
		s.Postgres.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	UserService         appServices.UserService
	TermService         appServices.TermService
	CourseService       appServices.CourseService
	EnrollmentService   appServices.EnrollmentService
	GradebookService    appServices.GradebookService
	TranscriptService   appServices.TranscriptService
	AttendanceService   appServices.AttendanceService
	FeeService          appServices.FeeService
	SettingsService     appServices.SettingsService
	NotificationService appServices.NotificationService
	Controllers         *appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Store               *appRepos.Store
	JWTService          *pkgAuth.JWTService
	AuthzService        *appAuth.AuthorizationService
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "uniportal",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store, applies migrations for postgres and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	storage := &Storage{}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using the in-memory store, data is lost on restart")
		storage.Store, _ = inmem.NewStore()
	default:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		storage.Postgres = database
		storage.Store = appRepos.NewPostgresStore(database)
		lgr.Info().Msg("Database connection successfully established.")

		if err := runMigrations(cfg, database, lgr); err != nil {
			database.Close()
			return nil, err
		}
	}

	hasher := pkgAuth.NewPasswordHasher(cfg.Academic.BcryptCost)
	if err := seed.CreateDefaultData(context.Background(), storage.Store.Repositories, hasher, seed.Options{
		AdminEmail:     cfg.Seed.AdminEmail,
		AdminPassword:  cfg.Seed.AdminPassword,
		EnrollmentOpen: cfg.Academic.DefaultEnrollmentOpen,
		MaxCreditHours: cfg.Academic.DefaultMaxCreditHours,
	}, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return storage, nil
}

func runMigrations(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes application services and controllers on top of the store.
func BuildDependencies(cfg *config.Config, storage *Storage, version string, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Store: storage.Store}
	store := storage.Store

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	hasher := pkgAuth.NewPasswordHasher(cfg.Academic.BcryptCost)

	mailer := email.NewEmailService(email.Config{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromName:       cfg.Email.FromName,
		FromEmail:      cfg.Email.FromAddress,
	}, lgr.With().Str("component", "email").Logger())

	deps.SettingsService = appServices.NewSettingsService(store.Settings, appServices.SettingsDefaults{
		EnrollmentOpen: cfg.Academic.DefaultEnrollmentOpen,
		MaxCreditHours: cfg.Academic.DefaultMaxCreditHours,
	})
	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := deps.SettingsService.Load(loadCtx); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService(store.Courses)
	deps.NotificationService = appServices.NewNotificationService(store.Notifications, store.Users, mailer)
	deps.AuthService = appServices.NewAuthService(store.Users, store.Tokens, deps.JWTService, hasher)
	deps.UserService = appServices.NewUserService(store.Users, hasher)
	deps.TermService = appServices.NewTermService(store)
	deps.CourseService = appServices.NewCourseService(store.Courses, store.Users)
	deps.EnrollmentService = appServices.NewEnrollmentService(store, deps.SettingsService)
	deps.GradebookService = appServices.NewGradebookService(store, deps.AuthzService, deps.NotificationService)
	deps.TranscriptService = appServices.NewTranscriptService(store.Transcripts)
	deps.AttendanceService = appServices.NewAttendanceService(store, deps.AuthzService)
	deps.FeeService = appServices.NewFeeService(store.Fees, store.Users, store.Terms, deps.NotificationService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	var pinger appControllers.Pinger
	if storage.Postgres != nil {
		pinger = storage.Postgres
	}

	deps.Controllers = &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Term:         appControllers.NewTermController(deps.TermService),
		Course:       appControllers.NewCourseController(deps.CourseService),
		Enrollment:   appControllers.NewEnrollmentController(deps.EnrollmentService),
		Gradebook:    appControllers.NewGradebookController(deps.GradebookService, lgr),
		Transcript:   appControllers.NewTranscriptController(deps.TranscriptService),
		Attendance:   appControllers.NewAttendanceController(deps.AttendanceService),
		Fee:          appControllers.NewFeeController(deps.FeeService),
		User:         appControllers.NewUserController(deps.UserService),
		Settings:     appControllers.NewSettingsController(deps.SettingsService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		Health:       appControllers.NewHealthController(pinger, version),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery(), appMiddleware.RequestLogger(), appMiddleware.CORS(cfg.CORS))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.SettingsService)

	return router
}
