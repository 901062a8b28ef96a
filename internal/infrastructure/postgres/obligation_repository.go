package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

var _ repository.ObligationRepository = (*ObligationRepo)(nil)

// ObligationRepo implementação de ObligationRepository (usável com pool ou tx).
type ObligationRepo struct {
	q Querier
}

// NewObligationRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewObligationRepository(q Querier) *ObligationRepo {
	return &ObligationRepo{q: q}
}

const obligationColumns = `
	id, client_id, obligation_type_id, reference_month, due_date,
	status, priority, description, amount, receipt_ref,
	completed_at, completed_by, created_at, updated_at, deleted_at`

// Create insere a obrigação. Violação do índice único de
// (cliente, tipo, competência) vira domain.ErrDuplicate: é o guarda
// autoritativo do contrato de deduplicação do Generator.
func (r *ObligationRepo) Create(o *entity.Obligation) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	query := `
		INSERT INTO obligations (id, client_id, obligation_type_id, reference_month, due_date,
			status, priority, description, amount, receipt_ref, completed_at, completed_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.ClientID, o.ObligationTypeID, o.ReferenceMonth, o.DueDate,
		o.Status, o.Priority, nullIfEmpty(o.Description), o.Amount, nullIfEmpty(o.ReceiptRef),
		o.CompletedAt, nullIfEmpty(o.CompletedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: obrigação já existe para cliente/tipo/competência", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert obligation: %w", err)
	}
	return nil
}

// GetByID obtém uma obrigação por ID (incluindo soft-deletadas; o caller decide).
func (r *ObligationRepo) GetByID(id string) (*entity.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	o, err := scanObligation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get obligation: %w", err)
	}
	return o, nil
}

// Update persiste os campos mutáveis da obrigação.
func (r *ObligationRepo) Update(o *entity.Obligation) error {
	query := `
		UPDATE obligations
		SET due_date     = $2,
		    status       = $3,
		    priority     = $4,
		    description  = $5,
		    receipt_ref  = $6,
		    completed_at = $7,
		    completed_by = $8,
		    updated_at   = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		o.ID, o.DueDate, o.Status, o.Priority, nullIfEmpty(o.Description),
		nullIfEmpty(o.ReceiptRef), o.CompletedAt, nullIfEmpty(o.CompletedBy), o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update obligation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrObligationNotFound
	}
	return nil
}

// ListByClientAndPeriod obrigações não deletadas do cliente com
// competência em [periodStart, periodEnd).
func (r *ObligationRepo) ListByClientAndPeriod(clientID string, periodStart, periodEnd time.Time) ([]*entity.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE client_id = $1
		  AND reference_month >= $2 AND reference_month < $3
		  AND deleted_at IS NULL
		ORDER BY due_date`
	rows, err := r.q.Query(context.Background(), query, clientID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("list obligations by period: %w", err)
	}
	return collectObligations(rows)
}

// List listagem filtrada e paginada (somente não deletadas).
func (r *ObligationRepo) List(filter repository.ObligationFilter, limit, offset int) ([]*entity.Obligation, error) {
	where, args := buildFilter(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s FROM obligations
		%s
		ORDER BY due_date, created_at
		LIMIT $%d OFFSET $%d`, obligationColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	return collectObligations(rows)
}

// Count total de linhas do filtro (para paginação).
func (r *ObligationRepo) Count(filter repository.ObligationFilter) (int, error) {
	where, args := buildFilter(filter)
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM obligations `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count obligations: %w", err)
	}
	return total, nil
}

// ListDueSoon pendentes com vencimento em [from, to].
func (r *ObligationRepo) ListDueSoon(from, to time.Time) ([]*entity.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE status = $1 AND due_date >= $2 AND due_date <= $3 AND deleted_at IS NULL
		ORDER BY due_date`
	rows, err := r.q.Query(context.Background(), query, entity.StatusPending, from, to)
	if err != nil {
		return nil, fmt.Errorf("list due soon: %w", err)
	}
	return collectObligations(rows)
}

// ListOverdue pendentes com vencimento anterior a asOf.
func (r *ObligationRepo) ListOverdue(asOf time.Time) ([]*entity.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE status = $1 AND due_date < $2 AND deleted_at IS NULL
		ORDER BY due_date`
	rows, err := r.q.Query(context.Background(), query, entity.StatusPending, asOf)
	if err != nil {
		return nil, fmt.Errorf("list overdue: %w", err)
	}
	return collectObligations(rows)
}

// SoftDelete marca a obrigação como deletada; nunca há remoção física.
func (r *ObligationRepo) SoftDelete(id string, when time.Time) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE obligations SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, when,
	)
	if err != nil {
		return fmt.Errorf("soft delete obligation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrObligationNotFound
	}
	return nil
}

func buildFilter(filter repository.ObligationFilter) (string, []any) {
	conds := []string{"deleted_at IS NULL"}
	var args []any
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		conds = append(conds, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		conds = append(conds, fmt.Sprintf("EXTRACT(YEAR FROM reference_month) = $%d", len(args)))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		conds = append(conds, fmt.Sprintf("EXTRACT(MONTH FROM reference_month) = $%d", len(args)))
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanObligation(row pgx.Row) (*entity.Obligation, error) {
	var o entity.Obligation
	var description, receiptRef, completedBy *string
	err := row.Scan(
		&o.ID, &o.ClientID, &o.ObligationTypeID, &o.ReferenceMonth, &o.DueDate,
		&o.Status, &o.Priority, &description, &o.Amount, &receiptRef,
		&o.CompletedAt, &completedBy, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Description = derefStr(description)
	o.ReceiptRef = derefStr(receiptRef)
	o.CompletedBy = derefStr(completedBy)
	return &o, nil
}

func collectObligations(rows pgx.Rows) ([]*entity.Obligation, error) {
	defer rows.Close()
	var list []*entity.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
