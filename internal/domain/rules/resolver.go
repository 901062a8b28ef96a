package rules

import (
	"fmt"

	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
)

var (
	comercio  = comercioStrategy{}
	servico   = servicoStrategy{}
	industria = industriaStrategy{}
	mei       = meiStrategy{}
)

// Resolve devolve a única estratégia aplicável ao cliente.
// Regime MEI sempre sobrepõe a seleção por categoria; categoria "mista"
// mapeia para comércio. Categoria desconhecida é erro de configuração.
func Resolve(c *entity.Client) (Strategy, error) {
	if c.TaxRegime == entity.RegimeMEI {
		return mei, nil
	}
	switch c.Category {
	case entity.CategoryComercio, entity.CategoryMista:
		return comercio, nil
	case entity.CategoryServico:
		return servico, nil
	case entity.CategoryIndustria:
		return industria, nil
	case entity.CategoryMEI:
		return mei, nil
	default:
		return nil, fmt.Errorf("%w: categoria %q", domain.ErrStrategyNotConfigured, c.Category)
	}
}
