package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

var _ repository.ObligationTypeRepository = (*ObligationTypeRepo)(nil)

// ObligationTypeRepo implementação do catálogo de tipos de obrigação.
type ObligationTypeRepo struct {
	q Querier
}

// NewObligationTypeRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewObligationTypeRepository(q Querier) *ObligationTypeRepo {
	return &ObligationTypeRepo{q: q}
}

const typeColumns = `
	id, code, name, description,
	applies_to_comercio, applies_to_servico, applies_to_industria, applies_to_mei,
	applies_to_simples, applies_to_presumido, applies_to_real,
	recurrence, due_day, due_month, default_amount, active, created_at, updated_at`

// Create insere uma entrada de catálogo. Código duplicado vira domain.ErrDuplicate.
func (r *ObligationTypeRepo) Create(t *entity.ObligationType) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO obligation_types (id, code, name, description,
			applies_to_comercio, applies_to_servico, applies_to_industria, applies_to_mei,
			applies_to_simples, applies_to_presumido, applies_to_real,
			recurrence, due_day, due_month, default_amount, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.Code, t.Name, nullIfEmpty(t.Description),
		t.AppliesToComercio, t.AppliesToServico, t.AppliesToIndustria, t.AppliesToMEI,
		t.AppliesToSimples, t.AppliesToPresumido, t.AppliesToReal,
		t.Recurrence, t.DueDay, t.DueMonth, t.DefaultAmount, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de tipo já existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert obligation type: %w", err)
	}
	return nil
}

// GetByID obtém uma entrada por ID.
func (r *ObligationTypeRepo) GetByID(id string) (*entity.ObligationType, error) {
	return r.getOne(`SELECT `+typeColumns+` FROM obligation_types WHERE id = $1`, id)
}

// GetByCode obtém uma entrada pelo código único.
func (r *ObligationTypeRepo) GetByCode(code string) (*entity.ObligationType, error) {
	return r.getOne(`SELECT `+typeColumns+` FROM obligation_types WHERE code = $1`, code)
}

func (r *ObligationTypeRepo) getOne(query string, arg any) (*entity.ObligationType, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	t, err := scanObligationType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get obligation type: %w", err)
	}
	return t, nil
}

// ListActiveByCodes entradas ativas cujo código está na lista; códigos
// sem linha são omitidos (o Generator loga o buraco).
func (r *ObligationTypeRepo) ListActiveByCodes(codes []string) ([]*entity.ObligationType, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	query := `SELECT ` + typeColumns + ` FROM obligation_types WHERE active AND code = ANY($1) ORDER BY code`
	rows, err := r.q.Query(context.Background(), query, codes)
	if err != nil {
		return nil, fmt.Errorf("list obligation types by code: %w", err)
	}
	return collectObligationTypes(rows)
}

// List lista o catálogo, opcionalmente só as entradas ativas.
func (r *ObligationTypeRepo) List(onlyActive bool) ([]*entity.ObligationType, error) {
	query := `SELECT ` + typeColumns + ` FROM obligation_types`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list obligation types: %w", err)
	}
	return collectObligationTypes(rows)
}

// SetActive liga/desliga uma entrada (nunca há remoção física).
func (r *ObligationTypeRepo) SetActive(id string, active bool, when time.Time) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE obligation_types SET active = $2, updated_at = $3 WHERE id = $1`,
		id, active, when,
	)
	if err != nil {
		return fmt.Errorf("set obligation type active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTypeNotFound
	}
	return nil
}

func scanObligationType(row pgx.Row) (*entity.ObligationType, error) {
	var t entity.ObligationType
	var description *string
	err := row.Scan(
		&t.ID, &t.Code, &t.Name, &description,
		&t.AppliesToComercio, &t.AppliesToServico, &t.AppliesToIndustria, &t.AppliesToMEI,
		&t.AppliesToSimples, &t.AppliesToPresumido, &t.AppliesToReal,
		&t.Recurrence, &t.DueDay, &t.DueMonth, &t.DefaultAmount, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Description = derefStr(description)
	return &t, nil
}

func collectObligationTypes(rows pgx.Rows) ([]*entity.ObligationType, error) {
	defer rows.Close()
	var list []*entity.ObligationType
	for rows.Next() {
		t, err := scanObligationType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation type: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
