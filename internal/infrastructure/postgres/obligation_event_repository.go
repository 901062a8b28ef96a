package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

var _ repository.ObligationEventRepository = (*ObligationEventRepo)(nil)

// ObligationEventRepo implementação do histórico de auditoria.
// Append-only: não existem UPDATE nem DELETE nesta tabela.
type ObligationEventRepo struct {
	q Querier
}

// NewObligationEventRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewObligationEventRepository(q Querier) *ObligationEventRepo {
	return &ObligationEventRepo{q: q}
}

// Create insere um evento imutável.
func (r *ObligationEventRepo) Create(e *entity.ObligationEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	var payload []byte
	if e.Payload != nil {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		payload = b
	}
	query := `
		INSERT INTO obligation_events (id, obligation_id, user_id, event_type, description, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ObligationID, e.UserID, e.Type, e.Description, payload, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert obligation event: %w", err)
	}
	return nil
}

// ListByObligation timeline paginada, mais recente primeiro.
func (r *ObligationEventRepo) ListByObligation(obligationID string, limit, offset int) ([]*entity.ObligationEvent, error) {
	query := `
		SELECT id, obligation_id, user_id, event_type, description, payload, created_at
		FROM obligation_events
		WHERE obligation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, obligationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list obligation events: %w", err)
	}
	defer rows.Close()
	var list []*entity.ObligationEvent
	for rows.Next() {
		var e entity.ObligationEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.ObligationID, &e.UserID, &e.Type, &e.Description, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan obligation event: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal event payload: %w", err)
			}
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// CountByObligation total de eventos de uma obrigação.
func (r *ObligationEventRepo) CountByObligation(obligationID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM obligation_events WHERE obligation_id = $1`, obligationID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count obligation events: %w", err)
	}
	return total, nil
}
