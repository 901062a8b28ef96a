package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateRequest dispara a geração de obrigações para um período.
// ClientID vazio = lote com todos os clientes ativos.
type GenerateRequest struct {
	Year     int    `json:"year" validate:"required,min=2000,max=2100"`
	Month    int    `json:"month" validate:"required,min=1,max=12"`
	ClientID string `json:"client_id"`
}

// GenerateResponse resultado da geração. TotalClients/Errors só aparecem
// na forma em lote; Obligations só na forma por cliente.
type GenerateResponse struct {
	Success          bool                 `json:"success"`
	TotalClients     int                  `json:"total_clients,omitempty"`
	TotalObligations int                  `json:"total_obligations"`
	Errors           int                  `json:"errors,omitempty"`
	Obligations      []ObligationResponse `json:"obligations,omitempty"`
}

// ProcessReceiptRequest conclui uma obrigação com recibo.
type ProcessReceiptRequest struct {
	ReceiptRef string `json:"receipt_ref" validate:"required"`
	Notes      string `json:"notes"`
}

// CancelRequest cancela uma obrigação.
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ChangeDueDateRequest altera o vencimento de uma obrigação.
type ChangeDueDateRequest struct {
	DueDate time.Time `json:"due_date" validate:"required"`
	Reason  string    `json:"reason" validate:"required,min=3"`
}

// ReopenRequest reabre uma obrigação concluída (ou marca pendente).
type ReopenRequest struct {
	Notes string `json:"notes"`
}

// ListObligationsQuery filtros da listagem (query string).
type ListObligationsQuery struct {
	ClientID string `query:"client_id"`
	Status   string `query:"status" validate:"omitempty,oneof=pending in_progress completed overdue cancelled"`
	Year     int    `query:"year" validate:"omitempty,min=2000,max=2100"`
	Month    int    `query:"month" validate:"omitempty,min=1,max=12"`
	PageRequest
}

// ObligationResponse representação de obrigação nas respostas; TypeName,
// TypeCode e ClientName são enriquecimentos opcionais.
type ObligationResponse struct {
	ID             string           `json:"id"`
	ClientID       string           `json:"client_id"`
	ClientName     string           `json:"client_name,omitempty"`
	TypeID         string           `json:"obligation_type_id"`
	TypeCode       string           `json:"type_code,omitempty"`
	TypeName       string           `json:"type_name,omitempty"`
	ReferenceMonth string           `json:"reference_month"` // "2026-09"
	DueDate        time.Time        `json:"due_date"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	Description    string           `json:"description,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	ReceiptRef     string           `json:"receipt_ref,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	CompletedBy    string           `json:"completed_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ObligationListResponse listagem paginada de obrigações.
type ObligationListResponse struct {
	Items []ObligationResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// EventResponse uma entrada da timeline de auditoria.
type EventResponse struct {
	ID           string         `json:"id"`
	ObligationID string         `json:"obligation_id"`
	UserID       *string        `json:"user_id,omitempty"`
	Type         string         `json:"type"`
	Description  string         `json:"description"`
	Payload      map[string]any `json:"payload,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// EventListResponse timeline paginada (mais recente primeiro).
type EventListResponse struct {
	Items []EventResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// SweepResponse resultado do sweep de atraso.
type SweepResponse struct {
	Success     bool `json:"success"`
	MarkedCount int  `json:"marked_count"`
}

// ObligationTypeResponse entrada de catálogo nas respostas.
type ObligationTypeResponse struct {
	ID                 string           `json:"id"`
	Code               string           `json:"code"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	AppliesToComercio  bool             `json:"applies_to_comercio"`
	AppliesToServico   bool             `json:"applies_to_servico"`
	AppliesToIndustria bool             `json:"applies_to_industria"`
	AppliesToMEI       bool             `json:"applies_to_mei"`
	AppliesToSimples   bool             `json:"applies_to_simples"`
	AppliesToPresumido bool             `json:"applies_to_presumido"`
	AppliesToReal      bool             `json:"applies_to_real"`
	Recurrence         string           `json:"recurrence"`
	DueDay             *int             `json:"due_day,omitempty"`
	DueMonth           *int             `json:"due_month,omitempty"`
	DefaultAmount      *decimal.Decimal `json:"default_amount,omitempty"`
	Active             bool             `json:"active"`
}
