package repository

import (
	"time"

	"github.com/contaflow/contaflow-api/internal/domain/entity"
)

// ObligationTypeRepository define a porta de persistência do catálogo.
// Entradas nunca são apagadas fisicamente; só o flag Active muda.
type ObligationTypeRepository interface {
	Create(t *entity.ObligationType) error
	GetByID(id string) (*entity.ObligationType, error)
	GetByCode(code string) (*entity.ObligationType, error)
	// ListActiveByCodes devolve as entradas ativas cujo código está na
	// lista; códigos sem linha correspondente são omitidos e o chamador
	// decide se registra o buraco.
	ListActiveByCodes(codes []string) ([]*entity.ObligationType, error)
	List(onlyActive bool) ([]*entity.ObligationType, error)
	SetActive(id string, active bool, when time.Time) error
}
