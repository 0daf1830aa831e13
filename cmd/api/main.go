// @title        DOMKA ERP API
// @version      1.0
// @description  API multi-empresa de DOMKA ERP.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/swaggo/swag"

	"github.com/domka/erp-api/docs"
	appanalytics "github.com/domka/erp-api/internal/application/analytics"
	"github.com/domka/erp-api/internal/application/auth"
	"github.com/domka/erp-api/internal/application/quoting"
	"github.com/domka/erp-api/internal/application/usecase"
	"github.com/domka/erp-api/internal/infrastructure/metrics"
	infrapdf "github.com/domka/erp-api/internal/infrastructure/pdf"
	"github.com/domka/erp-api/internal/infrastructure/postgres"
	"github.com/domka/erp-api/internal/infrastructure/storage"
	"github.com/domka/erp-api/internal/infrastructure/xmldoc"
	httpRouter "github.com/domka/erp-api/internal/interfaces/http"
	"github.com/domka/erp-api/pkg/config"
	"github.com/domka/erp-api/pkg/logger"
)

const (
	swaggerFile          = "./docs/swagger.json"
	revocationPurgeEvery = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Type).
		Msg("iniciando aplicación")

	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.App.Env,
			EnableTracing:    true,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			log.Fatal().Err(err).Msg("inicializar Sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("db", postgres.RedactURL(cfg.DB.ConnectionString())).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	statsRepo := postgres.NewSystemStatsRepository(pool)
	resetRepo := postgres.NewPasswordResetRepository(pool)
	revocationRepo := postgres.NewTokenRevocationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de documentos")
	}

	activityUC := usecase.NewActivityUseCase(activityRepo, log.Component("activity"))
	companyUC := usecase.NewCompanyUseCase(companyRepo, activityUC)
	userUC := usecase.NewUserUseCase(userRepo, companyRepo, activityUC)
	clientUC := usecase.NewClientUseCase(clientRepo, activityUC)
	productUC := usecase.NewProductUseCase(productRepo)
	taskUC := usecase.NewTaskUseCase(taskRepo, activityUC)
	moduleSvc := usecase.NewModuleService(companyRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(clientRepo, productRepo, quoteRepo, taskRepo, activityRepo, statsRepo)

	// PDF y XML de cotizaciones; el archivo se guarda en local o S3.
	quoteUC := quoting.NewQuoteUseCase(
		quoteRepo, clientRepo, companyRepo, txRunner,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Locale),
		xmldoc.NewQuoteXMLExporter(cfg.App.Currency),
		store, activityUC,
	)

	authUC := auth.NewAuthUseCase(auth.Deps{
		Users:       userRepo,
		Companies:   companyRepo,
		Resets:      resetRepo,
		Revocations: revocationRepo,
		Tx:          txRunner,
		Notifier:    auth.NewLogResetNotifier(log.Component("reset"), cfg.App.PublicURL),
		Activity:    activityUC,
	}, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	authLimiter := httpRouter.NewRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst, 5*time.Minute)
	defer authLimiter.Stop()

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Sentry:      sentryEnabled,
		Log:         log,
		Metrics:     collector,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(reg)))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     companyUC,
		UserUC:        userUC,
		ClientUC:      clientUC,
		ProductUC:     productUC,
		TaskUC:        taskUC,
		ActivityUC:    activityUC,
		QuoteUC:       quoteUC,
		DashboardUC:   dashboardUC,
		ModuleService: moduleSvc,
		AuthLimiter:   authLimiter,
		Metrics:       collector,
		Log:           log,
		JWTSecret:     cfg.JWT.Secret,
	})

	go purgeRevocations(ctx, revocationRepo, log.Component("revocations"))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// purgeRevocations borra periódicamente las revocaciones de tokens ya expirados.
func purgeRevocations(ctx context.Context, repo *postgres.TokenRevocationRepo, log *logger.Logger) {
	ticker := time.NewTicker(revocationPurgeEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.PurgeExpired(ctx, now)
			if err != nil {
				log.Warn().Err(err).Msg("purga de revocaciones")
				continue
			}
			if n > 0 {
				log.Debug().Int64("eliminadas", n).Msg("revocaciones expiradas purgadas")
			}
		}
	}
}
