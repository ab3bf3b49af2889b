package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/employee-portal/docs"
	"github.com/99minutos/employee-portal/internal/api/handler"
	"github.com/99minutos/employee-portal/internal/api/middleware"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth         ports.AuthService
	Employees    ports.EmployeeService
	Organization ports.OrganizationService
	TimeSheets   ports.TimeSheetService
	Leaves       ports.LeaveService
	Reports      ports.ReportService
}

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	JWTSecret    string
	Policy       middleware.PrincipalResolver
	Services     Services
	Dependencies []handler.Dependency
	Logger       zerolog.Logger

	// Registry receives the HTTP metrics. Nil means the default registry,
	// which also holds the portal metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.Services.Auth, cfg.Logger)
	employeeHandler := handler.NewEmployeeHandler(cfg.Services.Employees)
	orgHandler := handler.NewOrganizationHandler(cfg.Services.Organization)
	timeSheetHandler := handler.NewTimeSheetHandler(cfg.Services.TimeSheets)
	leaveHandler := handler.NewLeaveHandler(cfg.Services.Leaves)
	reportHandler := handler.NewReportHandler(cfg.Services.Reports)
	authMiddleware := middleware.Auth(cfg.JWTSecret, cfg.Services.Auth, cfg.Policy)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authMiddleware)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Protected API ---
	v1 := e.Group("/v1", authMiddleware)

	employees := v1.Group("/employees")
	employees.GET("", employeeHandler.List)
	employees.POST("", employeeHandler.Create)
	employees.GET("/:id", employeeHandler.Get)
	employees.PUT("/:id", employeeHandler.Update)
	employees.DELETE("/:id", employeeHandler.Delete)
	employees.POST("/:id/promote", employeeHandler.Promote)
	employees.POST("/:id/transfer", employeeHandler.Transfer)
	employees.POST("/:id/salary", employeeHandler.UpdateSalary)
	employees.GET("/:id/leave-balance", leaveHandler.Balance)
	employees.GET("/:id/timesheet-hours", timeSheetHandler.Hours)

	departments := v1.Group("/departments")
	departments.GET("", orgHandler.ListDepartments)
	departments.POST("", orgHandler.CreateDepartment)
	departments.GET("/:id", orgHandler.GetDepartment)
	departments.PUT("/:id", orgHandler.UpdateDepartment)
	departments.DELETE("/:id", orgHandler.DeleteDepartment)

	positions := v1.Group("/positions")
	positions.GET("", orgHandler.ListPositions)
	positions.POST("", orgHandler.CreatePosition)
	positions.GET("/:id", orgHandler.GetPosition)
	positions.PUT("/:id", orgHandler.UpdatePosition)
	positions.DELETE("/:id", orgHandler.DeletePosition)

	timesheets := v1.Group("/timesheets")
	timesheets.GET("", timeSheetHandler.List)
	timesheets.POST("", timeSheetHandler.Create)
	timesheets.GET("/:id", timeSheetHandler.Get)
	timesheets.DELETE("/:id", timeSheetHandler.Delete)
	timesheets.POST("/:id/submit", timeSheetHandler.Submit)
	timesheets.POST("/:id/approve", timeSheetHandler.Approve)
	timesheets.POST("/:id/reject", timeSheetHandler.Reject)

	leaves := v1.Group("/leaves")
	leaves.GET("", leaveHandler.List)
	leaves.POST("", leaveHandler.Create)
	leaves.GET("/:id", leaveHandler.Get)
	leaves.POST("/:id/approve", leaveHandler.Approve)
	leaves.POST("/:id/reject", leaveHandler.Reject)

	reports := v1.Group("/reports", middleware.RequirePermission(domain.PermReportsView))
	reports.GET("/employee-count", reportHandler.EmployeeCount)
	reports.GET("/department-statistics", reportHandler.DepartmentStatistics)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Dependencies...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
