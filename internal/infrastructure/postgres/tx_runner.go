package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contaflow/contaflow-api/internal/application/generation"
	"github.com/contaflow/contaflow-api/internal/application/lifecycle"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

// Garante que TxRunner implementa as portas do Generator e do Processor.
var _ generation.TxRunner = (*TxRunner)(nil)
var _ lifecycle.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com repos atados à tx e faz
// Commit ou Rollback. É o escopo transacional por cliente (Generator)
// e por obrigação (Processor).
func (r *TxRunner) Run(ctx context.Context, fn func(
	obligationRepo repository.ObligationRepository,
	eventRepo repository.ObligationEventRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	obligationRepo := NewObligationRepository(tx)
	eventRepo := NewObligationEventRepository(tx)

	if err := fn(obligationRepo, eventRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
