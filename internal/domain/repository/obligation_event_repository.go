package repository

import "github.com/contaflow/contaflow-api/internal/domain/entity"

// ObligationEventRepository define a porta do histórico de auditoria.
// Somente append e leitura: eventos nunca são atualizados ou apagados.
type ObligationEventRepository interface {
	Create(e *entity.ObligationEvent) error
	// ListByObligation devolve a timeline paginada, mais recente primeiro.
	ListByObligation(obligationID string, limit, offset int) ([]*entity.ObligationEvent, error)
	CountByObligation(obligationID string) (int, error)
}
