package usecase

import (
	"time"

	"github.com/contaflow/contaflow-api/internal/application/dto"
	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

// CatalogUseCase expõe o catálogo de tipos de obrigação. Entradas são
// semeadas por migração e raramente mudam; a única mutação exposta é o
// toggle de ativação (nunca remoção física).
type CatalogUseCase struct {
	repo repository.ObligationTypeRepository
}

// NewCatalogUseCase constrói o caso de uso do catálogo.
func NewCatalogUseCase(repo repository.ObligationTypeRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// List lista o catálogo; onlyActive filtra as entradas desativadas.
func (uc *CatalogUseCase) List(onlyActive bool) ([]dto.ObligationTypeResponse, error) {
	types, err := uc.repo.List(onlyActive)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ObligationTypeResponse, 0, len(types))
	for _, t := range types {
		items = append(items, dto.NewObligationTypeResponse(t))
	}
	return items, nil
}

// SetActive liga/desliga uma entrada do catálogo.
func (uc *CatalogUseCase) SetActive(id string, active bool) (*dto.ObligationTypeResponse, error) {
	t, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTypeNotFound
	}
	if err := uc.repo.SetActive(id, active, time.Now()); err != nil {
		return nil, err
	}
	t.Active = active
	resp := dto.NewObligationTypeResponse(t)
	return &resp, nil
}
