package generation_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/contaflow-api/internal/application/generation"
	"github.com/contaflow/contaflow-api/internal/application/lifecycle"
	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
	"github.com/contaflow/contaflow-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória
// ──────────────────────────────────────────────────────────────────────────────

type memObligationRepo struct {
	items map[string]*entity.Obligation
}

func newMemObligationRepo() *memObligationRepo {
	return &memObligationRepo{items: map[string]*entity.Obligation{}}
}

func (r *memObligationRepo) dedupKey(o *entity.Obligation) string {
	return o.ClientID + "|" + o.ObligationTypeID + "|" + o.ReferenceMonth.Format("2006-01")
}

func (r *memObligationRepo) Create(o *entity.Obligation) error {
	for _, existing := range r.items {
		if existing.DeletedAt == nil && r.dedupKey(existing) == r.dedupKey(o) {
			return fmt.Errorf("%w: obrigação já existe para o período", domain.ErrDuplicate)
		}
	}
	cp := *o
	r.items[o.ID] = &cp
	return nil
}

func (r *memObligationRepo) GetByID(id string) (*entity.Obligation, error) {
	o, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memObligationRepo) Update(o *entity.Obligation) error {
	if _, ok := r.items[o.ID]; !ok {
		return domain.ErrObligationNotFound
	}
	cp := *o
	r.items[o.ID] = &cp
	return nil
}

func (r *memObligationRepo) ListByClientAndPeriod(clientID string, periodStart, periodEnd time.Time) ([]*entity.Obligation, error) {
	var out []*entity.Obligation
	for _, o := range r.items {
		if o.ClientID == clientID && o.DeletedAt == nil &&
			!o.ReferenceMonth.Before(periodStart) && o.ReferenceMonth.Before(periodEnd) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memObligationRepo) List(_ repository.ObligationFilter, _, _ int) ([]*entity.Obligation, error) {
	return nil, nil
}

func (r *memObligationRepo) Count(_ repository.ObligationFilter) (int, error) { return 0, nil }

func (r *memObligationRepo) ListDueSoon(from, to time.Time) ([]*entity.Obligation, error) {
	var out []*entity.Obligation
	for _, o := range r.items {
		if o.Status == entity.StatusPending && o.DeletedAt == nil &&
			!o.DueDate.Before(from) && !o.DueDate.After(to) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memObligationRepo) ListOverdue(asOf time.Time) ([]*entity.Obligation, error) {
	var out []*entity.Obligation
	for _, o := range r.items {
		if o.Status == entity.StatusPending && o.DeletedAt == nil && o.DueDate.Before(asOf) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memObligationRepo) SoftDelete(id string, when time.Time) error {
	o, ok := r.items[id]
	if !ok {
		return domain.ErrObligationNotFound
	}
	o.DeletedAt = &when
	return nil
}

type memEventRepo struct {
	items []*entity.ObligationEvent
}

func (r *memEventRepo) Create(e *entity.ObligationEvent) error {
	cp := *e
	r.items = append(r.items, &cp)
	return nil
}

func (r *memEventRepo) ListByObligation(obligationID string, limit, offset int) ([]*entity.ObligationEvent, error) {
	var out []*entity.ObligationEvent
	for _, e := range r.items {
		if e.ObligationID == obligationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) CountByObligation(obligationID string) (int, error) {
	n := 0
	for _, e := range r.items {
		if e.ObligationID == obligationID {
			n++
		}
	}
	return n, nil
}

// fakeTxRunner entrega os repositórios em memória sem transação real.
type fakeTxRunner struct {
	obs    *memObligationRepo
	events *memEventRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	obligationRepo repository.ObligationRepository,
	eventRepo repository.ObligationEventRepository,
) error) error {
	return fn(f.obs, f.events)
}

type memClientRepo struct {
	items map[string]*entity.Client
}

func (r *memClientRepo) Create(c *entity.Client) error { r.items[c.ID] = c; return nil }

func (r *memClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *memClientRepo) GetByCNPJ(string) (*entity.Client, error) { return nil, nil }
func (r *memClientRepo) Update(*entity.Client) error              { return nil }

func (r *memClientRepo) List(limit, offset int) ([]*entity.Client, error) { return nil, nil }

func (r *memClientRepo) ListActive() ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.items {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memClientRepo) SoftDelete(string, time.Time) error { return nil }

// recordingNotifier guarda as notificações emitidas; com fail definido,
// toda entrega falha.
type recordingNotifier struct {
	sent []lifecycle.Notification
	fail error
}

func (n *recordingNotifier) Notify(_ context.Context, msg lifecycle.Notification) error {
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, msg)
	return nil
}

type memTypeRepo struct {
	items []*entity.ObligationType
}

func (r *memTypeRepo) Create(t *entity.ObligationType) error { r.items = append(r.items, t); return nil }

func (r *memTypeRepo) GetByID(id string) (*entity.ObligationType, error) {
	for _, t := range r.items {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTypeRepo) GetByCode(code string) (*entity.ObligationType, error) {
	for _, t := range r.items {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTypeRepo) ListActiveByCodes(codes []string) ([]*entity.ObligationType, error) {
	set := map[string]bool{}
	for _, c := range codes {
		set[c] = true
	}
	var out []*entity.ObligationType
	for _, t := range r.items {
		if t.Active && set[t.Code] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTypeRepo) List(onlyActive bool) ([]*entity.ObligationType, error) { return r.items, nil }

func (r *memTypeRepo) SetActive(string, bool, time.Time) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Cenário base
// ──────────────────────────────────────────────────────────────────────────────

func intPtr(n int) *int { return &n }

func decimalFromString(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func seedTypes() *memTypeRepo {
	return &memTypeRepo{items: []*entity.ObligationType{
		{ID: "t-das", Code: "DAS", Name: "DAS - Simples Nacional", Recurrence: entity.RecurrenceMensal, DueDay: intPtr(20), Active: true},
		{ID: "t-defis", Code: "DEFIS", Name: "DEFIS", Recurrence: entity.RecurrenceAnual, DueDay: intPtr(31), DueMonth: intPtr(3), Active: true},
		{ID: "t-icms", Code: "ICMS", Name: "ICMS", Recurrence: entity.RecurrenceMensal, DueDay: intPtr(10), Active: true},
		{ID: "t-fgts", Code: "FGTS", Name: "FGTS", Recurrence: entity.RecurrenceMensal, DueDay: intPtr(7), Active: true},
		{ID: "t-inss", Code: "INSS_GPS", Name: "INSS - GPS", Recurrence: entity.RecurrenceMensal, DueDay: intPtr(20), Active: true},
		{ID: "t-dirf", Code: "DIRF", Name: "DIRF", Recurrence: entity.RecurrenceAnual, DueDay: intPtr(28), DueMonth: intPtr(2), Active: true},
		{ID: "t-rais", Code: "RAIS", Name: "RAIS", Recurrence: entity.RecurrenceAnual, DueDay: intPtr(30), DueMonth: intPtr(4), Active: true},
	}}
}

func buildGenerator(clients ...*entity.Client) (*generation.Generator, *memObligationRepo, *memEventRepo) {
	gen, obs, events, _ := buildGeneratorNotificando(clients...)
	return gen, obs, events
}

func buildGeneratorNotificando(clients ...*entity.Client) (*generation.Generator, *memObligationRepo, *memEventRepo, *recordingNotifier) {
	clientRepo := &memClientRepo{items: map[string]*entity.Client{}}
	for _, c := range clients {
		clientRepo.items[c.ID] = c
	}
	obs := newMemObligationRepo()
	events := &memEventRepo{}
	notifier := &recordingNotifier{}
	gen := generation.NewGenerator(
		&fakeTxRunner{obs: obs, events: events},
		clientRepo, seedTypes(), obs, notifier, 0, logger.Nop(),
	)
	return gen, obs, events, notifier
}

func comercioSimples(id string) *entity.Client {
	return &entity.Client{
		ID:        id,
		Name:      "Comércio " + id,
		Category:  entity.CategoryComercio,
		TaxRegime: entity.RegimeSimples,
		Status:    entity.ClientStatusActive,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateForClient
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateForClient_CriaMensaisDoPeriodo(t *testing.T) {
	gen, _, events := buildGenerator(comercioSimples("c-1"))

	// Setembro: só os mensais ocorrem (anuais ancoram em janeiro).
	created, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	require.Len(t, created, 4, "DAS, ICMS, FGTS, INSS_GPS")

	for _, o := range created {
		assert.Equal(t, entity.StatusPending, o.Status)
		assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), o.ReferenceMonth)
		assert.Equal(t, time.October, o.DueDate.Month(), "vencimento no mês seguinte à competência")
		assert.NotEmpty(t, o.Priority)
	}

	// Um evento CREATED por obrigação, com o usuário que disparou.
	require.Len(t, events.items, 4)
	for _, e := range events.items {
		assert.Equal(t, entity.EventCreated, e.Type)
		require.NotNil(t, e.UserID)
		assert.Equal(t, "u-1", *e.UserID)
	}
}

func TestGenerateForClient_JaneiroIncluiAnuais(t *testing.T) {
	gen, _, _ := buildGenerator(comercioSimples("c-1"))

	created, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 1, "u-1")
	require.NoError(t, err)

	byCode := map[string]*entity.Obligation{}
	for _, o := range created {
		byCode[o.ObligationTypeID] = o
	}
	require.Len(t, created, 7, "mensais + DEFIS + DIRF + RAIS")

	// DEFIS anual com mês nominal próprio: 31/03 do mesmo ano.
	defis := byCode["t-defis"]
	require.NotNil(t, defis)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), defis.DueDate)
}

func TestGenerateForClient_Idempotente(t *testing.T) {
	gen, obs, events := buildGenerator(comercioSimples("c-1"))

	first, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	require.Len(t, first, 4)

	second, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	assert.Empty(t, second, "segunda execução não cria nada")
	assert.Len(t, obs.items, 4)
	assert.Len(t, events.items, 4, "nenhum evento novo na repetição")
}

func TestGenerateForClient_PeriodosDistintosIndependentes(t *testing.T) {
	gen, obs, _ := buildGenerator(comercioSimples("c-1"))

	_, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	created, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 10, "u-1")
	require.NoError(t, err)

	assert.Len(t, created, 4, "outubro gera de novo os mensais")
	assert.Len(t, obs.items, 8)
}

func TestGenerateForClient_ClienteInexistente(t *testing.T) {
	gen, _, _ := buildGenerator()

	_, err := gen.GenerateForClient(context.Background(), "c-zzz", 2026, 9, "u-1")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestGenerateForClient_PeriodoInvalido(t *testing.T) {
	gen, _, _ := buildGenerator(comercioSimples("c-1"))

	_, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 13, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = gen.GenerateForClient(context.Background(), "c-1", 1999, 1, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateForClient_ClienteInativoNaoGera(t *testing.T) {
	c := comercioSimples("c-1")
	c.Status = entity.ClientStatusSuspended
	gen, obs, _ := buildGenerator(c)

	created, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Empty(t, obs.items)
}

func TestGenerateForClient_HerdaValorDoCatalogo(t *testing.T) {
	mei := &entity.Client{
		ID: "c-mei", Name: "MEI Teste",
		Category: entity.CategoryServico, TaxRegime: entity.RegimeMEI,
		Status: entity.ClientStatusActive,
	}
	clientRepo := &memClientRepo{items: map[string]*entity.Client{mei.ID: mei}}
	obs := newMemObligationRepo()
	events := &memEventRepo{}
	amount := decimalFromString(t, "75.00")
	types := &memTypeRepo{items: []*entity.ObligationType{
		{ID: "t-simei", Code: "DAS_SIMEI", Name: "DAS SIMEI", Recurrence: entity.RecurrenceMensal, DueDay: intPtr(20), DefaultAmount: amount, Active: true},
	}}
	gen := generation.NewGenerator(&fakeTxRunner{obs: obs, events: events}, clientRepo, types, obs, lifecycle.NopNotifier{}, 0, logger.Nop())

	created, err := gen.GenerateForClient(context.Background(), "c-mei", 2026, 9, "")
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.NotNil(t, created[0].Amount)
	assert.True(t, created[0].Amount.Equal(*amount))

	// Geração sem usuário registra evento de sistema.
	require.Len(t, events.items, 1)
	assert.Nil(t, events.items[0].UserID)
}

func TestGenerateForClient_EmiteNotificacaoDeCriacao(t *testing.T) {
	gen, _, _, notifier := buildGeneratorNotificando(comercioSimples("c-1"))

	created, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	require.Len(t, created, 4)

	// Uma mensagem "created" por obrigação commitada.
	require.Len(t, notifier.sent, 4)
	names := map[string]bool{}
	for _, n := range notifier.sent {
		assert.Equal(t, "created", n.Action)
		assert.Equal(t, "c-1", n.ClientID)
		assert.Equal(t, entity.StatusPending, n.NewStatus)
		assert.NotEmpty(t, n.ObligationID)
		names[n.ObligationTypeName] = true
	}
	assert.True(t, names["DAS - Simples Nacional"], "notificação carrega o nome do tipo")

	// Repetição idempotente não notifica de novo.
	_, err = gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 4)
}

func TestGenerateForClient_NotificacaoFalhaNaoDesfazGeracao(t *testing.T) {
	clientRepo := &memClientRepo{items: map[string]*entity.Client{"c-1": comercioSimples("c-1")}}
	obs := newMemObligationRepo()
	events := &memEventRepo{}
	notifier := &recordingNotifier{fail: errors.New("push indisponível")}
	gen := generation.NewGenerator(&fakeTxRunner{obs: obs, events: events}, clientRepo, seedTypes(), obs, notifier, 0, logger.Nop())

	created, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	assert.Len(t, created, 4, "push com falha não desfaz a geração")
	assert.Len(t, obs.items, 4)
	assert.Len(t, events.items, 4)
}

func TestGenerateForClient_LogaCodigoSemEntradaAtivaNoCatalogo(t *testing.T) {
	clientRepo := &memClientRepo{items: map[string]*entity.Client{"c-1": comercioSimples("c-1")}}
	obs := newMemObligationRepo()
	events := &memEventRepo{}
	types := seedTypes()
	for _, typ := range types.items {
		if typ.Code == "ICMS" {
			typ.Active = false
		}
	}
	var buf bytes.Buffer
	gen := generation.NewGenerator(&fakeTxRunner{obs: obs, events: events}, clientRepo, types, obs, lifecycle.NopNotifier{}, 0, logger.NewWithWriter(&buf, "warn"))

	created, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)
	assert.Len(t, created, 3, "geração segue sem o código desativado")

	// Buraco de configuração do catálogo fica registrado.
	assert.Contains(t, buf.String(), "missing_codes")
	assert.Contains(t, buf.String(), "ICMS")
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateForAllClients
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateForAllClients_Lote(t *testing.T) {
	c1 := comercioSimples("c-1")
	c2 := comercioSimples("c-2")
	inativo := comercioSimples("c-3")
	inativo.Status = entity.ClientStatusInactive
	gen, obs, _ := buildGenerator(c1, c2, inativo)

	stats, err := gen.GenerateForAllClients(context.Background(), 2026, 9, "u-1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Clients, "apenas ativos entram no lote")
	assert.Equal(t, 8, stats.ObligationsCreated)
	assert.Equal(t, 0, stats.Errors)
	assert.Len(t, obs.items, 8)
}

func TestGenerateForAllClients_FalhaParcialNaoAbortaLote(t *testing.T) {
	c1 := comercioSimples("c-1")
	quebrado := comercioSimples("c-2")
	quebrado.Category = "categoria_invalida" // Resolve falha para este
	gen, obs, _ := buildGenerator(c1, quebrado)

	stats, err := gen.GenerateForAllClients(context.Background(), 2026, 9, "u-1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Clients)
	assert.Equal(t, 1, stats.Errors, "cliente sem estratégia conta como erro")
	assert.Equal(t, 4, stats.ObligationsCreated, "o cliente válido foi gerado")
	assert.Len(t, obs.items, 4)
}

// ──────────────────────────────────────────────────────────────────────────────
// Projeções de leitura
// ──────────────────────────────────────────────────────────────────────────────

func TestListDueSoonEListOverdue(t *testing.T) {
	gen, _, _ := buildGenerator(comercioSimples("c-1"))

	_, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)

	// Em 05/10 o FGTS (vence 07/10) está próximo; em 15/10 já venceu.
	dueSoon, err := gen.ListDueSoon(context.Background(), time.Date(2026, time.October, 5, 12, 0, 0, 0, time.UTC), 7)
	require.NoError(t, err)
	require.Len(t, dueSoon, 2, "FGTS (07/10) e ICMS (10/10) na janela de 7 dias")

	overdue, err := gen.ListOverdue(context.Background(), time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, overdue, 2, "FGTS e ICMS já vencidos em 15/10")
}

func TestListDueSoon_JanelaConfigurada(t *testing.T) {
	clientRepo := &memClientRepo{items: map[string]*entity.Client{"c-1": comercioSimples("c-1")}}
	obs := newMemObligationRepo()
	events := &memEventRepo{}
	gen := generation.NewGenerator(&fakeTxRunner{obs: obs, events: events}, clientRepo, seedTypes(), obs, lifecycle.NopNotifier{}, 3, logger.Nop())

	_, err := gen.GenerateForClient(context.Background(), "c-1", 2026, 9, "u-1")
	require.NoError(t, err)

	// days <= 0 cai na janela configurada de 3 dias: em 05/10 só o FGTS
	// (07/10) entra; o ICMS (10/10) fica fora.
	dueSoon, err := gen.ListDueSoon(context.Background(), time.Date(2026, time.October, 5, 12, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	require.Len(t, dueSoon, 1)

	// Pedido explícito do caller prevalece sobre a janela configurada.
	dueSoon, err = gen.ListDueSoon(context.Background(), time.Date(2026, time.October, 5, 12, 0, 0, 0, time.UTC), 7)
	require.NoError(t, err)
	assert.Len(t, dueSoon, 2)
}
