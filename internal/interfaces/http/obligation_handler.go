package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/contaflow-api/internal/application/dto"
	"github.com/contaflow/contaflow-api/internal/application/generation"
	"github.com/contaflow/contaflow-api/internal/application/lifecycle"
	"github.com/contaflow/contaflow-api/internal/application/usecase"
	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
)

// ObligationHandler consultas e transições de estado das obrigações.
type ObligationHandler struct {
	query *usecase.ObligationQueryUseCase
	proc  *lifecycle.Processor
	gen   *generation.Generator
}

// NewObligationHandler constrói o handler.
func NewObligationHandler(query *usecase.ObligationQueryUseCase, proc *lifecycle.Processor, gen *generation.Generator) *ObligationHandler {
	return &ObligationHandler{query: query, proc: proc, gen: gen}
}

// transitionError traduz os erros das transições para HTTP.
func transitionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrObligationNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "obrigação não encontrada"})
	}
	if domain.IsInvalidTransition(err) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// List godoc
// @Summary      Listar obrigações
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Param        client_id  query  string  false  "Filtrar por cliente"
// @Param        status     query  string  false  "Filtrar por status"
// @Param        year       query  int     false  "Ano da competência"
// @Param        month      query  int     false  "Mês da competência"
// @Param        limit      query  int     false  "Limite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ObligationListResponse
// @Router       /api/obligations [get]
func (h *ObligationHandler) List(c *fiber.Ctx) error {
	var q dto.ListObligationsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	if err := dto.Validate(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.query.List(q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obter obrigação por ID
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da obrigação"
// @Success      200  {object}  dto.ObligationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/obligations/{id} [get]
func (h *ObligationHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	out, err := h.query.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrObligationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "obrigação não encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Timeline godoc
// @Summary      Linha do tempo de eventos da obrigação
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID da obrigação"
// @Param        limit   query  int     false  "Limite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.EventListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/events [get]
func (h *ObligationHandler) Timeline(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	out, err := h.query.Timeline(id, page)
	if err != nil {
		if errors.Is(err, domain.ErrObligationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "obrigação não encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// DueSoon godoc
// @Summary      Obrigações pendentes vencendo em breve
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Janela em dias (ausente: janela configurada)"
// @Success      200   {array}  dto.ObligationResponse
// @Router       /api/obligations/due-soon [get]
func (h *ObligationHandler) DueSoon(c *fiber.Ctx) error {
	// days ausente ou inválido cai na janela configurada do gerador.
	days := c.QueryInt("days", 0)
	list, err := h.gen.ListDueSoon(c.Context(), time.Now(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toResponses(list))
}

// Overdue godoc
// @Summary      Obrigações pendentes já vencidas
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ObligationResponse
// @Router       /api/obligations/overdue [get]
func (h *ObligationHandler) Overdue(c *fiber.Ctx) error {
	list, err := h.gen.ListOverdue(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toResponses(list))
}

// ProcessReceipt godoc
// @Summary      Concluir obrigação com recibo
// @Tags         obligations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da obrigação"
// @Param        body  body  dto.ProcessReceiptRequest  true  "receipt_ref, notes"
// @Success      200   {object}  dto.ObligationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/receipt [post]
func (h *ObligationHandler) ProcessReceipt(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ProcessReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	ob, err := h.proc.ProcessReceipt(c.Context(), id, in.ReceiptRef, GetUserID(c), in.Notes)
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(dto.NewObligationResponse(ob, nil, nil))
}

// Complete godoc
// @Summary      Concluir obrigação sem recibo
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da obrigação"
// @Success      200  {object}  dto.ObligationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/complete [post]
func (h *ObligationHandler) Complete(c *fiber.Ctx) error {
	ob, err := h.proc.QuickComplete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(dto.NewObligationResponse(ob, nil, nil))
}

// Cancel godoc
// @Summary      Cancelar obrigação
// @Tags         obligations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da obrigação"
// @Param        body  body  dto.CancelRequest  true  "reason"
// @Success      200   {object}  dto.ObligationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/cancel [post]
func (h *ObligationHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.CancelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	ob, err := h.proc.Cancel(c.Context(), id, in.Reason, GetUserID(c))
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(dto.NewObligationResponse(ob, nil, nil))
}

// Reopen godoc
// @Summary      Reabrir obrigação concluída
// @Tags         obligations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da obrigação"
// @Param        body  body  dto.ReopenRequest  false  "notes"
// @Success      200   {object}  dto.ObligationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/reopen [post]
func (h *ObligationHandler) Reopen(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ReopenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
		}
	}
	ob, err := h.proc.Reopen(c.Context(), id, GetUserID(c), in.Notes)
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(dto.NewObligationResponse(ob, nil, nil))
}

// MarkPending godoc
// @Summary      Voltar obrigação para pendente
// @Tags         obligations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da obrigação"
// @Param        body  body  dto.ReopenRequest  false  "notes"
// @Success      200   {object}  dto.ObligationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/pending [post]
func (h *ObligationHandler) MarkPending(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ReopenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
		}
	}
	ob, err := h.proc.MarkPending(c.Context(), id, GetUserID(c), in.Notes)
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(dto.NewObligationResponse(ob, nil, nil))
}

// MarkInProgress godoc
// @Summary      Marcar obrigação como em andamento
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da obrigação"
// @Success      200  {object}  dto.ObligationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/in-progress [post]
func (h *ObligationHandler) MarkInProgress(c *fiber.Ctx) error {
	ob, err := h.proc.MarkInProgress(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(dto.NewObligationResponse(ob, nil, nil))
}

// ChangeDueDate godoc
// @Summary      Alterar vencimento da obrigação
// @Tags         obligations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da obrigação"
// @Param        body  body  dto.ChangeDueDateRequest  true  "due_date, reason"
// @Success      200   {object}  dto.ObligationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/due-date [patch]
func (h *ObligationHandler) ChangeDueDate(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ChangeDueDateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	ob, err := h.proc.ChangeDueDate(c.Context(), id, in.DueDate, in.Reason, GetUserID(c))
	if err != nil {
		return transitionError(c, err)
	}
	return c.JSON(dto.NewObligationResponse(ob, nil, nil))
}

// SweepOverdue godoc
// @Summary      Marcar como vencidas as obrigações pendentes em atraso
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SweepResponse
// @Router       /api/obligations/sweep-overdue [post]
func (h *ObligationHandler) SweepOverdue(c *fiber.Ctx) error {
	marked, err := h.proc.SweepOverdue(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.SweepResponse{Success: true, MarkedCount: marked})
}

func toResponses(list []*entity.Obligation) []dto.ObligationResponse {
	items := make([]dto.ObligationResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.NewObligationResponse(o, nil, nil))
	}
	return items
}
