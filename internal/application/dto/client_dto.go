package dto

import "time"

// CreateClientRequest cadastro de cliente do escritório.
type CreateClientRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	TradeName string `json:"trade_name"`
	CNPJ      string `json:"cnpj" validate:"required,min=11,max=18"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state" validate:"omitempty,len=2"`
	Category  string `json:"category" validate:"required,oneof=comercio servico industria mista mei"`
	TaxRegime string `json:"tax_regime" validate:"required,oneof=simples_nacional lucro_presumido lucro_real mei"`
}

// UpdateClientRequest atualização de cadastro; campos vazios são mantidos.
type UpdateClientRequest struct {
	Name      string `json:"name"`
	TradeName string `json:"trade_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state" validate:"omitempty,len=2"`
	Category  string `json:"category" validate:"omitempty,oneof=comercio servico industria mista mei"`
	TaxRegime string `json:"tax_regime" validate:"omitempty,oneof=simples_nacional lucro_presumido lucro_real mei"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// ClientResponse representação de cliente nas respostas.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TradeName string    `json:"trade_name,omitempty"`
	CNPJ      string    `json:"cnpj"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Category  string    `json:"category"`
	TaxRegime string    `json:"tax_regime"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientListResponse listagem paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
