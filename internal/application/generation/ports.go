package generation

import (
	"context"

	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. Garante que a checagem de duplicata,
// as inserções e os eventos de criação de um cliente commitam juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		obligationRepo repository.ObligationRepository,
		eventRepo repository.ObligationEventRepository,
	) error) error
}
