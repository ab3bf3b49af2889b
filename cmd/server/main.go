// @title        Employee Portal API
// @version      1.0
// @description  Employee records, departments, positions, timesheets and leave with role-based access.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-portal/internal/api"
	"github.com/99minutos/employee-portal/internal/api/handler"
	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/service"
	"github.com/99minutos/employee-portal/internal/infrastructure/config"
	mongodb "github.com/99minutos/employee-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/employee-portal/internal/infrastructure/db/redis"
	"github.com/99minutos/employee-portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to read .env")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens are signed with an empty key (development only)")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	policy, err := authz.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}
	mode, err := service.ParseTransitionMode(cfg.Workflow.InvalidTransition)
	if err != nil {
		return err
	}

	// --- Dependencies ---
	identities := mongodb.NewIdentityRepository(db)
	employees := mongodb.NewEmployeeRepository(db)
	departments := mongodb.NewDepartmentRepository(db)
	positions := mongodb.NewPositionRepository(db)
	timesheets := mongodb.NewTimeSheetRepository(db)
	leaves := mongodb.NewLeaveRepository(db)
	sessions := redisdb.NewSessionStore(rdb, cfg.TokenTTL)
	gate := authz.NewGate(employees)

	authService := service.NewAuthService(identities, sessions, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	if cfg.SeedDemoAccounts {
		if err := authService.SeedDemoAccounts(ctx); err != nil {
			return err
		}
	}

	entitlement := domain.LeaveEntitlement{
		AnnualLeave:   cfg.Leave.AnnualDays,
		SickLeave:     cfg.Leave.SickDays,
		PersonalLeave: cfg.Leave.PersonalDays,
	}

	e := api.NewRouter(api.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		Policy:    policy,
		Services: api.Services{
			Auth:         authService,
			Employees:    service.NewEmployeeService(employees, departments, positions, gate, logger.Component("employees")),
			Organization: service.NewOrganizationService(departments, positions, gate, logger.Component("organization")),
			TimeSheets:   service.NewTimeSheetService(timesheets, employees, gate, mode, logger.Component("timesheets")),
			Leaves:       service.NewLeaveService(leaves, employees, gate, mode, entitlement, logger.Component("leaves")),
			Reports:      service.NewReportService(employees, departments, gate, logger.Component("reports")),
		},
		Dependencies: []handler.Dependency{
			{Name: "mongodb", Check: func(ctx context.Context) error { return mongodb.Ping(ctx, db) }},
			{Name: "redis", Check: func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) }},
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("invalid_transition", string(mode)).Msg("HTTP server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
