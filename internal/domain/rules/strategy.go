package rules

import (
	"time"

	"github.com/contaflow/contaflow-api/internal/domain/entity"
)

// Strategy é o contrato fixo de capacidades que o Generator consome.
// O conjunto de implementações é fechado (comércio, serviço, indústria,
// MEI) e a seleção acontece só em Resolve; estender é adicionar uma
// variante nova aqui, não subclassear em ponto aberto.
type Strategy interface {
	// Kind identifica a variante ("comercio", "servico", "industria", "mei").
	Kind() string
	// ApplicableCodes devolve os códigos de catálogo aplicáveis ao cliente,
	// derivados do regime tributário mais adições independentes de regime.
	ApplicableCodes(c *entity.Client) []string
	// DueDate calcula o vencimento de um tipo para um mês de competência.
	DueDate(t *entity.ObligationType, referenceMonth time.Time) time.Time
	// Priority deriva a prioridade no momento da geração (snapshot).
	Priority(t *entity.ObligationType, dueDate, today time.Time) string
	// ShouldGenerate é o gate de elegibilidade do cliente.
	ShouldGenerate(c *entity.Client) bool
}

// baseStrategy carrega os algoritmos default compartilhados pelas
// variantes; cada variante sobrepõe apenas o que lhe é próprio.
type baseStrategy struct{}

func (baseStrategy) DueDate(t *entity.ObligationType, referenceMonth time.Time) time.Time {
	day := DefaultDueDay
	if t.DueDay != nil {
		day = *t.DueDay
	}
	if t.Recurrence == entity.RecurrenceAnual && t.DueMonth != nil {
		return AnnualDueDate(day, *t.DueMonth, referenceMonth)
	}
	return DueDateFor(day, referenceMonth)
}

func (baseStrategy) Priority(_ *entity.ObligationType, dueDate, today time.Time) string {
	return PriorityFor(dueDate, today)
}

func (baseStrategy) ShouldGenerate(c *entity.Client) bool {
	return c.IsActive()
}
