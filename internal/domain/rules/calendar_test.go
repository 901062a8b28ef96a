package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/rules"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// DueDateFor — vencimento no mês seguinte à competência, com clamp
// ──────────────────────────────────────────────────────────────────────────────

func TestDueDateFor_DiaNominalNoMesSeguinte(t *testing.T) {
	// Competência setembro, dia 20 → vence 20 de outubro.
	due := rules.DueDateFor(20, date(2026, time.September, 1))
	assert.Equal(t, date(2026, time.October, 20), due)
}

func TestDueDateFor_Dia31EmMesDe30_ClampaSemRolar(t *testing.T) {
	// Competência março, dia 31 → abril só tem 30; clampa para 30/04.
	due := rules.DueDateFor(31, date(2026, time.March, 1))
	assert.Equal(t, date(2026, time.April, 30), due)
}

func TestDueDateFor_FevereiroSempre28(t *testing.T) {
	// Competência janeiro, dia 31 → fevereiro clampa em 28, mesmo em
	// ano bissexto (2028).
	due := rules.DueDateFor(31, date(2028, time.January, 1))
	assert.Equal(t, date(2028, time.February, 28), due)
}

func TestDueDateFor_DezembroRolaParaJaneiro(t *testing.T) {
	due := rules.DueDateFor(15, date(2026, time.December, 1))
	assert.Equal(t, date(2027, time.January, 15), due)
}

func TestDueDateFor_DiaZeroUsaDefault(t *testing.T) {
	due := rules.DueDateFor(0, date(2026, time.May, 1))
	assert.Equal(t, date(2026, time.June, rules.DefaultDueDay), due)
}

func TestDueDateFor_IgnoraDiaDaCompetencia(t *testing.T) {
	// A competência é normalizada para o primeiro dia do mês.
	a := rules.DueDateFor(10, date(2026, time.July, 1))
	b := rules.DueDateFor(10, date(2026, time.July, 28))
	assert.Equal(t, a, b)
}

// ──────────────────────────────────────────────────────────────────────────────
// AnnualDueDate — próxima ocorrência de (dia, mês) após a competência
// ──────────────────────────────────────────────────────────────────────────────

func TestAnnualDueDate_MesAindaNoAno(t *testing.T) {
	// Competência janeiro, nominal 31/03 → 31/03 do mesmo ano.
	due := rules.AnnualDueDate(31, 3, date(2026, time.January, 1))
	assert.Equal(t, date(2026, time.March, 31), due)
}

func TestAnnualDueDate_MesJaPassado_ProximoAno(t *testing.T) {
	// Competência maio, nominal 31/03 → 31/03 do ano seguinte.
	due := rules.AnnualDueDate(31, 3, date(2026, time.May, 1))
	assert.Equal(t, date(2027, time.March, 31), due)
}

func TestAnnualDueDate_MesmoMes_ProximoAno(t *testing.T) {
	// Mês nominal igual ao da competência conta como "já passado".
	due := rules.AnnualDueDate(15, 5, date(2026, time.May, 1))
	assert.Equal(t, date(2027, time.May, 15), due)
}

func TestAnnualDueDate_ClampaFevereiro(t *testing.T) {
	due := rules.AnnualDueDate(30, 2, date(2026, time.January, 1))
	assert.Equal(t, date(2026, time.February, 28), due)
}

// ──────────────────────────────────────────────────────────────────────────────
// LastDayOfMonth
// ──────────────────────────────────────────────────────────────────────────────

func TestLastDayOfMonth(t *testing.T) {
	assert.Equal(t, 28, rules.LastDayOfMonth(time.February))
	assert.Equal(t, 30, rules.LastDayOfMonth(time.April))
	assert.Equal(t, 30, rules.LastDayOfMonth(time.June))
	assert.Equal(t, 30, rules.LastDayOfMonth(time.September))
	assert.Equal(t, 30, rules.LastDayOfMonth(time.November))
	assert.Equal(t, 31, rules.LastDayOfMonth(time.January))
	assert.Equal(t, 31, rules.LastDayOfMonth(time.December))
}

// ──────────────────────────────────────────────────────────────────────────────
// OccursInMonth — gate de recorrência
// ──────────────────────────────────────────────────────────────────────────────

func TestOccursInMonth(t *testing.T) {
	// Mensal ocorre sempre.
	for m := time.January; m <= time.December; m++ {
		assert.True(t, rules.OccursInMonth(entity.RecurrenceMensal, m))
	}

	// Bimestral: meses ímpares.
	assert.True(t, rules.OccursInMonth(entity.RecurrenceBimestral, time.January))
	assert.False(t, rules.OccursInMonth(entity.RecurrenceBimestral, time.February))
	assert.True(t, rules.OccursInMonth(entity.RecurrenceBimestral, time.November))

	// Trimestral: jan/abr/jul/out.
	assert.True(t, rules.OccursInMonth(entity.RecurrenceTrimestral, time.April))
	assert.False(t, rules.OccursInMonth(entity.RecurrenceTrimestral, time.May))

	// Semestral: jan/jul.
	assert.True(t, rules.OccursInMonth(entity.RecurrenceSemestral, time.July))
	assert.False(t, rules.OccursInMonth(entity.RecurrenceSemestral, time.August))

	// Anual: só janeiro.
	assert.True(t, rules.OccursInMonth(entity.RecurrenceAnual, time.January))
	assert.False(t, rules.OccursInMonth(entity.RecurrenceAnual, time.December))

	// Recorrência desconhecida nunca gera.
	assert.False(t, rules.OccursInMonth("quinzenal", time.January))
}

// ──────────────────────────────────────────────────────────────────────────────
// PriorityFor — prioridade derivada dos dias até o vencimento
// ──────────────────────────────────────────────────────────────────────────────

func TestPriorityFor(t *testing.T) {
	today := date(2026, time.September, 1)

	cases := []struct {
		name string
		due  time.Time
		want string
	}{
		{"vencida ontem", date(2026, time.August, 31), entity.PriorityUrgent},
		{"vence hoje", today, entity.PriorityHigh},
		{"vence em 3 dias", date(2026, time.September, 4), entity.PriorityHigh},
		{"vence em 4 dias", date(2026, time.September, 5), entity.PriorityMedium},
		{"vence em 7 dias", date(2026, time.September, 8), entity.PriorityMedium},
		{"vence em 8 dias", date(2026, time.September, 9), entity.PriorityLow},
		{"vence no mês que vem", date(2026, time.October, 20), entity.PriorityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rules.PriorityFor(tc.due, today))
		})
	}
}

func TestPriorityFor_IgnoraHorario(t *testing.T) {
	// Os limiares contam dias de calendário, não horas.
	due := time.Date(2026, time.September, 4, 1, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.September, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.PriorityHigh, rules.PriorityFor(due, today))
}
