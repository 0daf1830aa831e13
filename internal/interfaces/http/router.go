package http

import (
	"time"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/domka/erp-api/internal/application/analytics"
	"github.com/domka/erp-api/internal/application/auth"
	"github.com/domka/erp-api/internal/application/quoting"
	"github.com/domka/erp-api/internal/application/usecase"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/pkg/logger"
)

// AppOptions configuración de la app Fiber.
type AppOptions struct {
	Name        string
	CORSOrigins string // vacío = "*"
	Sentry      bool   // requiere sentry.Init previo
	Log         *logger.Logger
	Metrics     Metrics
}

// NewApp crea la app con los middlewares globales: request id, log de
// peticiones, recover, Sentry (opcional) y CORS.
func NewApp(opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler(opts.Log),
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(opts.Log, opts.Metrics))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	if opts.Sentry {
		app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true, WaitForDelivery: false}))
	}
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Authorization, Accept",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	UserUC        *usecase.UserUseCase
	ClientUC      *usecase.ClientUseCase
	ProductUC     *usecase.ProductUseCase
	TaskUC        *usecase.TaskUseCase
	ActivityUC    *usecase.ActivityUseCase
	QuoteUC       *quoting.QuoteUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	ModuleService moduleChecker
	AuthLimiter   *RateLimiter
	Metrics       Metrics
	Log           *logger.Logger
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, limitado por IP)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Metrics)
	authGroup := api.Group("/auth")
	limited := deps.AuthLimiter.Middleware()
	authGroup.Post("/register", limited, authHandler.Register)
	authGroup.Post("/login", limited, authHandler.Login)
	authGroup.Post("/forgot-password", limited, authHandler.ForgotPassword)
	authGroup.Post("/reset-password", limited, authHandler.ResetPassword)

	// Rutas protegidas (requieren Bearer Token)
	authn := AuthMiddleware(deps.JWTSecret, deps.AuthUC)
	active := ActiveSession(deps.AuthUC)
	// Logout solo necesita un token válido: un usuario desactivado puede cerrar sesión.
	authGroup.Post("/logout", authn, authHandler.Logout)
	authGroup.Get("/me", authn, active, authHandler.Me)

	protected := api.Group("", authn, active)
	module := func(name string) fiber.Handler {
		return RequireModule(name, deps.ModuleService, deps.Log)
	}

	// Companies: listado, alta y módulos solo superadmin; admin lee y renombra la suya.
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	superadminOnly := RequirePermission(access.PermManageAllCompanies)
	companies := protected.Group("/companies")
	companies.Get("/", superadminOnly, companyHandler.List)
	companies.Post("/", superadminOnly, companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Put("/:id/modules", superadminOnly, companyHandler.SetModules)

	// Users: superadmin o admin de la empresa
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", RequireRole(entity.RoleSuperadmin, entity.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// Clients (módulo clientes)
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clients", module(entity.ModuleClientes))
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Products (módulo inventario)
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products", module(entity.ModuleInventario))
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Post("/:id/stock", productHandler.AdjustStock)
	products.Delete("/:id", productHandler.Delete)

	// Quotes (módulo cotizaciones)
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	quotes := protected.Group("/quotes", module(entity.ModuleCotizaciones))
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Get("/:id/pdf", quoteHandler.PDF)
	quotes.Get("/:id/xml", quoteHandler.XML)
	quotes.Post("/:id/archive", quoteHandler.Archive)
	quotes.Get("/:id/archive", quoteHandler.DownloadArchived)

	// Tasks y actividad (sin módulo)
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasks := protected.Group("/tasks")
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/", taskHandler.List)
	tasks.Patch("/:id/toggle", taskHandler.Toggle)

	activityHandler := NewActivityHandler(deps.ActivityUC)
	protected.Get("/activity", activityHandler.Recent)

	// Dashboards
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Company)
	protected.Get("/superadmin/dashboard",
		RequirePermission(access.PermViewSuperadminPanel), dashboardHandler.System)
}
