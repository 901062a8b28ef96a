package repository

import (
	"time"

	"github.com/contaflow/contaflow-api/internal/domain/entity"
)

// ClientRepository define a porta de persistência para Client (DIP).
// A implementação vive em infrastructure.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	GetByCNPJ(cnpj string) (*entity.Client, error)
	Update(client *entity.Client) error
	List(limit, offset int) ([]*entity.Client, error)
	// ListActive devolve os clientes elegíveis ao lote: status active e
	// sem soft delete.
	ListActive() ([]*entity.Client, error)
	SoftDelete(id string, when time.Time) error
}
