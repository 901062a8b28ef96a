package rules

import (
	"time"

	"github.com/contaflow/contaflow-api/internal/domain/entity"
)

// DefaultDueDay é o dia nominal de vencimento quando o tipo não define um.
const DefaultDueDay = 20

// LastDayOfMonth devolve o último dia válido para fins de vencimento:
// fevereiro = 28 (fixo, sem ajuste bissexto), abril/junho/setembro/
// novembro = 30, demais = 31.
func LastDayOfMonth(m time.Month) int {
	switch m {
	case time.February:
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// clampDay limita o dia ao último dia válido do mês. Dia 31 pedido para
// um mês de 30 vira 30 em silêncio; nunca rola para o mês seguinte.
func clampDay(day int, m time.Month) int {
	if day <= 0 {
		day = DefaultDueDay
	}
	if last := LastDayOfMonth(m); day > last {
		return last
	}
	return day
}

// DueDateFor calcula o vencimento para um mês de competência: o dia
// nominal no mês seguinte à competência, com clamp. Dezembro rola para
// janeiro do ano seguinte.
func DueDateFor(day int, referenceMonth time.Time) time.Time {
	target := FirstOfMonth(referenceMonth).AddDate(0, 1, 0)
	d := clampDay(day, target.Month())
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, time.UTC)
}

// AnnualDueDate calcula o vencimento de uma obrigação anual com mês
// nominal próprio: a próxima ocorrência de (day, month) estritamente
// posterior ao mês de competência.
func AnnualDueDate(day, month int, referenceMonth time.Time) time.Time {
	ref := FirstOfMonth(referenceMonth)
	year := ref.Year()
	if time.Month(month) <= ref.Month() {
		year++
	}
	d := clampDay(day, time.Month(month))
	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

// FirstOfMonth normaliza qualquer instante para o primeiro dia do mês em UTC.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// OccursInMonth informa se um padrão de recorrência tem competência no
// mês dado. Recorrências maiores que a mensal são ancoradas em janeiro.
func OccursInMonth(recurrence string, m time.Month) bool {
	switch recurrence {
	case entity.RecurrenceMensal:
		return true
	case entity.RecurrenceBimestral:
		return m%2 == 1
	case entity.RecurrenceTrimestral:
		return m == time.January || m == time.April || m == time.July || m == time.October
	case entity.RecurrenceSemestral:
		return m == time.January || m == time.July
	case entity.RecurrenceAnual:
		return m == time.January
	default:
		return false
	}
}

// PriorityFor deriva a prioridade dos dias restantes até o vencimento,
// avaliada em relação a "hoje" no momento da geração (snapshot):
// negativo = urgent, 0–3 = high, 4–7 = medium, >7 = low.
func PriorityFor(dueDate, today time.Time) string {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		return entity.PriorityUrgent
	case days <= 3:
		return entity.PriorityHigh
	case days <= 7:
		return entity.PriorityMedium
	default:
		return entity.PriorityLow
	}
}
