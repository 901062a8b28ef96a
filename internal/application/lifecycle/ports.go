package lifecycle

import (
	"context"
	"time"

	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. A mutação da obrigação e seu evento
// commitam juntos ou falham juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		obligationRepo repository.ObligationRepository,
		eventRepo repository.ObligationEventRepository,
	) error) error
}

// Notification mensagem emitida ao colaborador de push após uma
// transição commitada.
type Notification struct {
	Action             string     `json:"action"` // created, completed, cancelled, due_date_changed, reopened, status_changed
	ObligationID       string     `json:"obligation_id"`
	ClientID           string     `json:"client_id"`
	ObligationTypeName string     `json:"obligation_type_name"`
	NewStatus          string     `json:"new_status"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// Notifier é a capacidade injetada de push em tempo real. A entrega é
// best-effort: falha é logada pelo Processor e nunca propagada nem
// desfaz a transição.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier descarta notificações (testes, deploys sem push).
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }
