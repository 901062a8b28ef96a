package entity

import "time"

// Tipos de evento do histórico de auditoria.
const (
	EventCreated          = "created"
	EventStatusChanged    = "status_changed"
	EventDueDateChanged   = "due_date_changed"
	EventCancelled        = "cancelled"
	EventReceiptProcessed = "receipt_processed"
	EventReopened         = "reopened"
	EventReminderSent     = "reminder_sent"
)

// ObligationEvent é um registro imutável de auditoria: uma linha por
// ação que afeta o estado da obrigação, criada na mesma transação da
// mutação. Nunca é atualizado nem apagado; a ordenação por CreatedAt
// define a timeline.
type ObligationEvent struct {
	ID           string
	ObligationID string
	UserID       *string // nil = ação do sistema (sweep, lote sem usuário)
	Type         string  // ver constantes Event*
	Description  string
	Payload      map[string]any // dados estruturados (old/new, competência, motivo)
	CreatedAt    time.Time
}

// IsSystemEvent informa se o evento foi produzido pelo sistema.
func (e *ObligationEvent) IsSystemEvent() bool { return e.UserID == nil }
