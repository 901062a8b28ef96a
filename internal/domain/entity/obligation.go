package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status do ciclo de vida de uma obrigação.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue" // derivado: pending cujo vencimento passou (sweep)
	StatusCancelled  = "cancelled"
)

// Prioridades (snapshot calculado na geração).
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Obligation é uma instância concreta de um tipo de obrigação para um
// cliente em um mês de competência. No máximo uma obrigação não deletada
// pode existir por (cliente, tipo, competência); o índice único parcial
// em obligations é a autoridade desse contrato.
type Obligation struct {
	ID               string
	ClientID         string
	ObligationTypeID string

	// ReferenceMonth é o primeiro dia do mês de competência (UTC).
	// Distinto do vencimento, que normalmente cai no mês seguinte.
	ReferenceMonth time.Time
	DueDate        time.Time

	Status      string // ver constantes Status*
	Priority    string // ver constantes Priority*
	Description string

	Amount     *decimal.Decimal // valor informativo herdado do catálogo
	ReceiptRef string           // referência do comprovante/recibo; vazio = sem recibo

	CompletedAt *time.Time
	CompletedBy string // ID do usuário que concluiu; vazio = ninguém

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // soft delete; nil = vivo
}

// IsCompleted informa se a obrigação já foi concluída.
func (o *Obligation) IsCompleted() bool { return o.Status == StatusCompleted }

// IsCancelled informa se a obrigação foi cancelada.
func (o *Obligation) IsCancelled() bool { return o.Status == StatusCancelled }

// IsTerminal informa se o status atual encerra o fluxo normal
// (completed ainda pode ser reaberta explicitamente).
func (o *Obligation) IsTerminal() bool { return o.IsCompleted() || o.IsCancelled() }
