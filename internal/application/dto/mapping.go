package dto

import "github.com/contaflow/contaflow-api/internal/domain/entity"

// NewObligationResponse mapeia a entidade para resposta; typ e client
// são enriquecimentos opcionais (nil = sem enriquecer).
func NewObligationResponse(o *entity.Obligation, typ *entity.ObligationType, client *entity.Client) ObligationResponse {
	resp := ObligationResponse{
		ID:             o.ID,
		ClientID:       o.ClientID,
		TypeID:         o.ObligationTypeID,
		ReferenceMonth: o.ReferenceMonth.Format("2006-01"),
		DueDate:        o.DueDate,
		Status:         o.Status,
		Priority:       o.Priority,
		Description:    o.Description,
		Amount:         o.Amount,
		ReceiptRef:     o.ReceiptRef,
		CompletedAt:    o.CompletedAt,
		CompletedBy:    o.CompletedBy,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if typ != nil {
		resp.TypeCode = typ.Code
		resp.TypeName = typ.Name
	}
	if client != nil {
		resp.ClientName = client.Name
	}
	return resp
}

// NewClientResponse mapeia a entidade de cliente para resposta.
func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		TradeName: c.TradeName,
		CNPJ:      c.CNPJ,
		Email:     c.Email,
		Phone:     c.Phone,
		City:      c.City,
		State:     c.State,
		Category:  c.Category,
		TaxRegime: c.TaxRegime,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewEventResponse mapeia um evento de auditoria para resposta.
func NewEventResponse(e *entity.ObligationEvent) EventResponse {
	return EventResponse{
		ID:           e.ID,
		ObligationID: e.ObligationID,
		UserID:       e.UserID,
		Type:         e.Type,
		Description:  e.Description,
		Payload:      e.Payload,
		CreatedAt:    e.CreatedAt,
	}
}

// NewObligationTypeResponse mapeia uma entrada de catálogo para resposta.
func NewObligationTypeResponse(t *entity.ObligationType) ObligationTypeResponse {
	return ObligationTypeResponse{
		ID:                 t.ID,
		Code:               t.Code,
		Name:               t.Name,
		Description:        t.Description,
		AppliesToComercio:  t.AppliesToComercio,
		AppliesToServico:   t.AppliesToServico,
		AppliesToIndustria: t.AppliesToIndustria,
		AppliesToMEI:       t.AppliesToMEI,
		AppliesToSimples:   t.AppliesToSimples,
		AppliesToPresumido: t.AppliesToPresumido,
		AppliesToReal:      t.AppliesToReal,
		Recurrence:         t.Recurrence,
		DueDay:             t.DueDay,
		DueMonth:           t.DueMonth,
		DefaultAmount:      t.DefaultAmount,
		Active:             t.Active,
	}
}
