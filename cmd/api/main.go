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

	"github.com/contaflow/contaflow-api/internal/application/auth"
	"github.com/contaflow/contaflow-api/internal/application/generation"
	"github.com/contaflow/contaflow-api/internal/application/lifecycle"
	"github.com/contaflow/contaflow-api/internal/application/usecase"
	"github.com/contaflow/contaflow-api/internal/infrastructure/notify"
	"github.com/contaflow/contaflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/contaflow/contaflow-api/internal/interfaces/http"
	"github.com/contaflow/contaflow-api/pkg/config"
	"github.com/contaflow/contaflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log); err != nil {
		log.Fatal().Err(err).Msg("migrações do banco")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	clientRepo := postgres.NewClientRepository(pool)
	typeRepo := postgres.NewObligationTypeRepository(pool)
	obligationRepo := postgres.NewObligationRepository(pool)
	eventRepo := postgres.NewObligationEventRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	hub := notify.NewHub(log)

	generator := generation.NewGenerator(txRunner, clientRepo, typeRepo, obligationRepo, hub, cfg.Engine.ReminderWindow, log)
	processor := lifecycle.NewProcessor(txRunner, typeRepo, obligationRepo, hub, log)
	queryUC := usecase.NewObligationQueryUseCase(obligationRepo, eventRepo, typeRepo, clientRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	catalogUC := usecase.NewCatalogUseCase(typeRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ContaFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ClientUC:  clientUC,
		CatalogUC: catalogUC,
		QueryUC:   queryUC,
		Generator: generator,
		Processor: processor,
		Hub:       hub,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação parada")
}
