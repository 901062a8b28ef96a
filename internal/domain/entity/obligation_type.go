package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Padrões de recorrência do catálogo.
const (
	RecurrenceMensal     = "mensal"
	RecurrenceBimestral  = "bimestral"
	RecurrenceTrimestral = "trimestral"
	RecurrenceSemestral  = "semestral"
	RecurrenceAnual      = "anual"
)

// ObligationType é a entrada de catálogo de uma obrigação recorrente
// (ex.: DAS mensal, DCTF, DIRF anual). Nunca é apagada fisicamente:
// obrigações históricas a referenciam; desativações usam Active.
type ObligationType struct {
	ID          string
	Code        string // único, ex.: "DAS", "DARF_IRPJ", "DASN_SIMEI"
	Name        string
	Description string

	// Aplicabilidade por categoria de empresa.
	AppliesToComercio  bool
	AppliesToServico   bool
	AppliesToIndustria bool
	AppliesToMEI       bool

	// Aplicabilidade por regime tributário.
	AppliesToSimples   bool
	AppliesToPresumido bool
	AppliesToReal      bool

	Recurrence string // ver constantes Recurrence*
	DueDay     *int   // dia nominal de vencimento; nil = default da estratégia
	DueMonth   *int   // mês de vencimento para anuais (1-12); nil = mês seguinte à competência

	// Valor informativo quando o tipo tem quantia fixa (ex.: DAS do MEI).
	// O motor não calcula imposto; apenas propaga o valor à obrigação.
	DefaultAmount *decimal.Decimal

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
