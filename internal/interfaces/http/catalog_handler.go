package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/contaflow-api/internal/application/dto"
	"github.com/contaflow/contaflow-api/internal/application/usecase"
	"github.com/contaflow/contaflow-api/internal/domain"
)

// CatalogHandler consulta e ativação do catálogo de tipos de obrigação.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler constrói o handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List godoc
// @Summary      Listar tipos de obrigação
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        all  query  bool  false  "Incluir tipos inativos"
// @Success      200  {array}  dto.ObligationTypeResponse
// @Router       /api/obligation-types [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	onlyActive := !c.QueryBool("all", false)
	out, err := h.uc.List(onlyActive)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// SetActive godoc
// @Summary      Ativar ou desativar tipo de obrigação
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do tipo"
// @Param        body  body  setActiveRequest  true  "active"
// @Success      200   {object}  dto.ObligationTypeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/obligation-types/{id}/active [patch]
func (h *CatalogHandler) SetActive(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	var in setActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.SetActive(id, in.Active)
	if err != nil {
		if errors.Is(err, domain.ErrTypeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tipo de obrigação não encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
