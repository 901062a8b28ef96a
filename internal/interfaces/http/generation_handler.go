package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/contaflow-api/internal/application/dto"
	"github.com/contaflow/contaflow-api/internal/application/generation"
	"github.com/contaflow/contaflow-api/internal/domain"
)

// GenerationHandler dispara a geração mensal de obrigações.
type GenerationHandler struct {
	gen *generation.Generator
}

// NewGenerationHandler constrói o handler.
func NewGenerationHandler(gen *generation.Generator) *GenerationHandler {
	return &GenerationHandler{gen: gen}
}

// Generate godoc
// @Summary      Gerar obrigações da competência
// @Description  client_id vazio gera para todos os clientes ativos.
//
//	Rodar de novo para o mesmo período é seguro: obrigações
//	já existentes são puladas.
//
// @Tags         obligations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateRequest  true  "year, month, client_id opcional"
// @Success      200   {object}  dto.GenerateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/obligations/generate [post]
func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	userID := GetUserID(c)

	if in.ClientID == "" {
		stats, err := h.gen.GenerateForAllClients(c.Context(), in.Year, in.Month, userID)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return c.JSON(dto.GenerateResponse{
			Success:          stats.Errors == 0,
			TotalClients:     stats.Clients,
			TotalObligations: stats.ObligationsCreated,
			Errors:           stats.Errors,
		})
	}

	created, err := h.gen.GenerateForClient(c.Context(), in.ClientID, in.Year, in.Month, userID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente não encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrStrategyNotConfigured) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.ObligationResponse, 0, len(created))
	for _, o := range created {
		items = append(items, dto.NewObligationResponse(o, nil, nil))
	}
	return c.JSON(dto.GenerateResponse{
		Success:          true,
		TotalObligations: len(items),
		Obligations:      items,
	})
}
