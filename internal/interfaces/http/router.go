package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/contaflow-api/internal/application/auth"
	"github.com/contaflow/contaflow-api/internal/application/generation"
	"github.com/contaflow/contaflow-api/internal/application/lifecycle"
	"github.com/contaflow/contaflow-api/internal/application/usecase"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/infrastructure/notify"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ClientUC  *usecase.ClientUseCase
	CatalogUC *usecase.CatalogUseCase
	QueryUC   *usecase.ObligationQueryUseCase
	Generator *generation.Generator
	Processor *lifecycle.Processor
	Hub       *notify.Hub
	JWTSecret string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Clientes (protegido; remoção só admin)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", RequireRole(entity.RoleAdmin), clientHandler.Delete)

	// Catálogo de tipos de obrigação (ativação só admin)
	types := protected.Group("/obligation-types")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	types.Get("/", catalogHandler.List)
	types.Patch("/:id/active", RequireRole(entity.RoleAdmin), catalogHandler.SetActive)

	// Obrigações
	obligations := protected.Group("/obligations")
	generationHandler := NewGenerationHandler(deps.Generator)
	obligationHandler := NewObligationHandler(deps.QueryUC, deps.Processor, deps.Generator)

	obligations.Post("/generate", RequireRole(entity.RoleAdmin, entity.RoleContador), generationHandler.Generate)
	obligations.Post("/sweep-overdue", RequireRole(entity.RoleAdmin), obligationHandler.SweepOverdue)

	// Rotas fixas antes das parametrizadas para o Fiber não capturar
	// "due-soon" como :id.
	obligations.Get("/due-soon", obligationHandler.DueSoon)
	obligations.Get("/overdue", obligationHandler.Overdue)
	obligations.Get("/", obligationHandler.List)
	obligations.Get("/:id", obligationHandler.GetByID)
	obligations.Get("/:id/events", obligationHandler.Timeline)

	obligations.Post("/:id/receipt", obligationHandler.ProcessReceipt)
	obligations.Post("/:id/complete", obligationHandler.Complete)
	obligations.Post("/:id/cancel", RequireRole(entity.RoleAdmin, entity.RoleContador), obligationHandler.Cancel)
	obligations.Post("/:id/reopen", RequireRole(entity.RoleAdmin, entity.RoleContador), obligationHandler.Reopen)
	obligations.Post("/:id/pending", obligationHandler.MarkPending)
	obligations.Post("/:id/in-progress", obligationHandler.MarkInProgress)
	obligations.Patch("/:id/due-date", RequireRole(entity.RoleAdmin, entity.RoleContador), obligationHandler.ChangeDueDate)

	// Canal de notificações em tempo real
	app.Get("/ws", WSUpgrade, WSHandler(deps.Hub))
}
