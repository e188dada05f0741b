package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/fencepro-workflow/docs"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/application/workflow"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/events"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/fencepro-workflow/internal/interfaces/http"
	"github.com/jhoicas/fencepro-workflow/pkg/config"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

// @title                       FencePro Workflow API
// @version                     1.0
// @description                 Motor de flujo de trabajo para instalación de cercas: solicitudes, cotizaciones, trabajos y facturas.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer {token}
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	st, err := store.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("abrir almacén")
	}
	defer st.Close()

	// Eventos de transición: NATS si hay URL, si no solo log.
	var publisher ports.TransitionPublisher
	if cfg.Events.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.Events.NATSURL, cfg.App.Name, cfg.Events.SubjectPrefix, log)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.Events.NATSURL).Msg("conexión a NATS")
		}
		defer nc.Close()
		publisher = nc
	} else {
		publisher = events.NewLogPublisher(cfg.Events.SubjectPrefix, log)
	}

	wfCfg := workflow.DefaultConfig()
	wfCfg.Approval = rules.ApprovalPolicy{
		QuoteTotalThreshold: cfg.Workflow.QuoteTotalThreshold,
		MarginMinimum:       cfg.Workflow.MarginMinimum,
		DiscountMaximum:     cfg.Workflow.DiscountMaximum,
	}
	if cfg.Workflow.YardLeadDays > 0 {
		wfCfg.YardLeadDays = cfg.Workflow.YardLeadDays
	}
	workflowUC := workflow.NewWorkflowUseCase(st.Repos, st.Tx, ports.SystemClock{}, publisher, wfCfg, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FencePro Workflow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Workflow:  workflowUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
