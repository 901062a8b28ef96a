package repository

import (
	"time"

	"github.com/contaflow/contaflow-api/internal/domain/entity"
)

// ObligationFilter filtros da listagem de obrigações. Campos zero são
// ignorados; Year/Month filtram pelo mês de competência.
type ObligationFilter struct {
	ClientID string
	Status   string
	Year     int
	Month    int
}

// ObligationRepository define a porta de persistência para Obligation.
// Create devolve domain.ErrDuplicate quando o índice único de
// (cliente, tipo, competência) é violado — é a autoridade do contrato
// de deduplicação; o pré-filtro do Generator é só atalho.
type ObligationRepository interface {
	Create(o *entity.Obligation) error
	GetByID(id string) (*entity.Obligation, error)
	Update(o *entity.Obligation) error
	// ListByClientAndPeriod devolve as obrigações não deletadas do cliente
	// com competência em [periodStart, periodEnd).
	ListByClientAndPeriod(clientID string, periodStart, periodEnd time.Time) ([]*entity.Obligation, error)
	List(filter ObligationFilter, limit, offset int) ([]*entity.Obligation, error)
	Count(filter ObligationFilter) (int, error)
	// ListDueSoon devolve obrigações em pending com vencimento em [from, to].
	ListDueSoon(from, to time.Time) ([]*entity.Obligation, error)
	// ListOverdue devolve pendentes com vencimento anterior a asOf.
	ListOverdue(asOf time.Time) ([]*entity.Obligation, error)
	SoftDelete(id string, when time.Time) error
}
