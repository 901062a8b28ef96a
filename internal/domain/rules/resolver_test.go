package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/rules"
)

func client(category, regime string) *entity.Client {
	return &entity.Client{
		ID:        "c-1",
		Name:      "Empresa Teste LTDA",
		Category:  category,
		TaxRegime: regime,
		Status:    entity.ClientStatusActive,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve — seleção de estratégia
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_PorCategoria(t *testing.T) {
	cases := []struct {
		category string
		wantKind string
	}{
		{entity.CategoryComercio, "comercio"},
		{entity.CategoryServico, "servico"},
		{entity.CategoryIndustria, "industria"},
		{entity.CategoryMista, "comercio"}, // mista segue comércio
		{entity.CategoryMEI, "mei"},
	}
	for _, tc := range cases {
		t.Run(tc.category, func(t *testing.T) {
			s, err := rules.Resolve(client(tc.category, entity.RegimeSimples))
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, s.Kind())
		})
	}
}

func TestResolve_RegimeMEISobrepoeCategoria(t *testing.T) {
	// Indústria com regime MEI cai na estratégia MEI, não na industrial.
	s, err := rules.Resolve(client(entity.CategoryIndustria, entity.RegimeMEI))
	require.NoError(t, err)
	assert.Equal(t, "mei", s.Kind())
}

func TestResolve_CategoriaDesconhecida_Erro(t *testing.T) {
	_, err := rules.Resolve(client("agronegocio", entity.RegimeSimples))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStrategyNotConfigured)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplicableCodes — aplicabilidade por regime e categoria
// ──────────────────────────────────────────────────────────────────────────────

func TestApplicableCodes_ComercioSimples(t *testing.T) {
	s, err := rules.Resolve(client(entity.CategoryComercio, entity.RegimeSimples))
	require.NoError(t, err)

	codes := s.ApplicableCodes(client(entity.CategoryComercio, entity.RegimeSimples))
	assert.ElementsMatch(t,
		[]string{"DAS", "DEFIS", "ICMS", "FGTS", "INSS_GPS", "DIRF", "RAIS"},
		codes)
}

func TestApplicableCodes_ServicoPresumido(t *testing.T) {
	c := client(entity.CategoryServico, entity.RegimePresumido)
	s, err := rules.Resolve(c)
	require.NoError(t, err)

	codes := s.ApplicableCodes(c)
	assert.Contains(t, codes, "ISS")
	assert.NotContains(t, codes, "ICMS", "serviço não recolhe ICMS")
	assert.Contains(t, codes, "DARF_IRPJ")
	assert.Contains(t, codes, "DCTF")
	assert.NotContains(t, codes, "DAS", "presumido não recolhe DAS")
}

func TestApplicableCodes_IndustriaReal(t *testing.T) {
	c := client(entity.CategoryIndustria, entity.RegimeReal)
	s, err := rules.Resolve(c)
	require.NoError(t, err)

	codes := s.ApplicableCodes(c)
	assert.Contains(t, codes, "ICMS")
	assert.Contains(t, codes, "IPI")
	assert.Contains(t, codes, "EFD_CONTRIBUICOES")
	assert.Contains(t, codes, "ECD")
	assert.NotContains(t, codes, "ISS")
}

func TestApplicableCodes_MEIConjuntoFixo(t *testing.T) {
	c := client(entity.CategoryServico, entity.RegimeMEI)
	s, err := rules.Resolve(c)
	require.NoError(t, err)

	codes := s.ApplicableCodes(c)
	assert.ElementsMatch(t, []string{"DAS_SIMEI", "DASN_SIMEI"}, codes,
		"MEI tem conjunto mínimo fixo, sem trabalhistas nem anuais comuns")
}

// ──────────────────────────────────────────────────────────────────────────────
// Defaults da estratégia base — DueDate e ShouldGenerate
// ──────────────────────────────────────────────────────────────────────────────

func TestStrategyDueDate_UsaDiaDoTipo(t *testing.T) {
	s, err := rules.Resolve(client(entity.CategoryComercio, entity.RegimeSimples))
	require.NoError(t, err)

	day := 10
	typ := &entity.ObligationType{Code: "ICMS", Recurrence: entity.RecurrenceMensal, DueDay: &day}
	due := s.DueDate(typ, date(2026, time.September, 1))
	assert.Equal(t, date(2026, time.October, 10), due)
}

func TestStrategyDueDate_AnualComMesNominal(t *testing.T) {
	s, err := rules.Resolve(client(entity.CategoryComercio, entity.RegimeSimples))
	require.NoError(t, err)

	day, month := 31, 3
	typ := &entity.ObligationType{Code: "DEFIS", Recurrence: entity.RecurrenceAnual, DueDay: &day, DueMonth: &month}
	due := s.DueDate(typ, date(2026, time.January, 1))
	assert.Equal(t, date(2026, time.March, 31), due)
}

func TestStrategyDueDate_SemDiaUsaDefault(t *testing.T) {
	s, err := rules.Resolve(client(entity.CategoryComercio, entity.RegimeSimples))
	require.NoError(t, err)

	typ := &entity.ObligationType{Code: "DAS", Recurrence: entity.RecurrenceMensal}
	due := s.DueDate(typ, date(2026, time.September, 1))
	assert.Equal(t, date(2026, time.October, rules.DefaultDueDay), due)
}

func TestShouldGenerate_ClienteInativoNaoGera(t *testing.T) {
	c := client(entity.CategoryComercio, entity.RegimeSimples)
	s, err := rules.Resolve(c)
	require.NoError(t, err)
	assert.True(t, s.ShouldGenerate(c))

	c.Status = entity.ClientStatusInactive
	assert.False(t, s.ShouldGenerate(c))

	c.Status = entity.ClientStatusSuspended
	assert.False(t, s.ShouldGenerate(c))
}
