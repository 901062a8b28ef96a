package entity

import "time"

// Categorias de empresa (atividade declarada do cliente).
const (
	CategoryComercio  = "comercio"
	CategoryServico   = "servico"
	CategoryIndustria = "industria"
	CategoryMista     = "mista" // comércio + serviço; hoje segue as regras de comércio
	CategoryMEI       = "mei"
)

// Regimes tributários.
const (
	RegimeSimples   = "simples_nacional"
	RegimePresumido = "lucro_presumido"
	RegimeReal      = "lucro_real"
	RegimeMEI       = "mei"
)

// Status de cliente.
const (
	ClientStatusActive    = "active"
	ClientStatusInactive  = "inactive"
	ClientStatusSuspended = "suspended"
)

// Client representa uma empresa atendida pelo escritório. O motor de
// obrigações lê categoria, regime e status; o cadastro em si é gerido
// pelos casos de uso de cliente.
type Client struct {
	ID        string
	Name      string // razão social
	TradeName string // nome fantasia
	CNPJ      string
	Email     string
	Phone     string
	City      string
	State     string // UF
	Category  string // ver constantes Category*
	TaxRegime string // ver constantes Regime*
	Status    string // active, inactive, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // soft delete; nil = vivo
}

// IsActive informa se o cliente participa da geração de obrigações.
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive && c.DeletedAt == nil
}
