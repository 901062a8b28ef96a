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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementação do cadastro de clientes sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `
	id, name, trade_name, cnpj, email, phone, city, state,
	category, tax_regime, status, created_at, updated_at, deleted_at`

// Create persiste um novo cliente. CNPJ duplicado vira domain.ErrDuplicate.
func (r *ClientRepo) Create(c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clients (id, name, trade_name, cnpj, email, phone, city, state,
			category, tax_regime, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.TradeName), c.CNPJ, nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		nullIfEmpty(c.City), nullIfEmpty(c.State), c.Category, c.TaxRegime, c.Status,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: CNPJ já cadastrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtém um cliente por ID (incluindo soft-deletados; o caller decide).
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.getOne(`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetByCNPJ obtém um cliente vivo pelo CNPJ.
func (r *ClientRepo) GetByCNPJ(cnpj string) (*entity.Client, error) {
	return r.getOne(`SELECT `+clientColumns+` FROM clients WHERE cnpj = $1 AND deleted_at IS NULL`, cnpj)
}

func (r *ClientRepo) getOne(query string, arg any) (*entity.Client, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Update persiste o cadastro do cliente.
func (r *ClientRepo) Update(c *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, trade_name = $3, email = $4, phone = $5, city = $6, state = $7,
		    category = $8, tax_regime = $9, status = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.TradeName), nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		nullIfEmpty(c.City), nullIfEmpty(c.State), c.Category, c.TaxRegime, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// List lista clientes vivos com paginação.
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE deleted_at IS NULL
		ORDER BY name
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return collectClients(rows)
}

// ListActive clientes elegíveis ao lote de geração.
func (r *ClientRepo) ListActive() ([]*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, entity.ClientStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active clients: %w", err)
	}
	return collectClients(rows)
}

// SoftDelete marca o cliente como deletado.
func (r *ClientRepo) SoftDelete(id string, when time.Time) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE clients SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, when,
	)
	if err != nil {
		return fmt.Errorf("soft delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var tradeName, email, phone, city, state *string
	err := row.Scan(
		&c.ID, &c.Name, &tradeName, &c.CNPJ, &email, &phone, &city, &state,
		&c.Category, &c.TaxRegime, &c.Status, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	c.TradeName = derefStr(tradeName)
	c.Email = derefStr(email)
	c.Phone = derefStr(phone)
	c.City = derefStr(city)
	c.State = derefStr(state)
	return &c, nil
}

func collectClients(rows pgx.Rows) ([]*entity.Client, error) {
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
