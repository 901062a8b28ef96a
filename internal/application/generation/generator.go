package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contaflow/contaflow-api/internal/application/lifecycle"
	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
	"github.com/contaflow/contaflow-api/internal/domain/rules"
	"github.com/contaflow/contaflow-api/pkg/logger"
)

// Generator cria as obrigações de um período para um cliente ou para
// toda a carteira ativa, sem duplicar em execuções repetidas. A escrita
// de cada cliente acontece dentro de uma transação própria (TxRunner);
// o índice único de (cliente, tipo, competência) fecha a corrida que o
// pré-filtro em memória não fecha.
type Generator struct {
	txRunner     TxRunner
	clientRepo   repository.ClientRepository
	typeRepo     repository.ObligationTypeRepository
	obsRepo      repository.ObligationRepository // leituras fora de transação
	notifier     lifecycle.Notifier
	reminderDays int // janela padrão de ListDueSoon quando o caller não pede outra
	log          *logger.Logger
}

const defaultReminderDays = 7

// NewGenerator constrói o gerador. Depois do commit de cada cliente, o
// colaborador de push recebe uma mensagem "created" por obrigação criada,
// em modo best-effort.
func NewGenerator(
	txRunner TxRunner,
	clientRepo repository.ClientRepository,
	typeRepo repository.ObligationTypeRepository,
	obsRepo repository.ObligationRepository,
	notifier lifecycle.Notifier,
	reminderDays int,
	log *logger.Logger,
) *Generator {
	if notifier == nil {
		notifier = lifecycle.NopNotifier{}
	}
	if reminderDays <= 0 {
		reminderDays = defaultReminderDays
	}
	return &Generator{
		txRunner:     txRunner,
		clientRepo:   clientRepo,
		typeRepo:     typeRepo,
		obsRepo:      obsRepo,
		notifier:     notifier,
		reminderDays: reminderDays,
		log:          log,
	}
}

// BatchStats agregados da geração em lote.
type BatchStats struct {
	Clients            int
	ObligationsCreated int
	Errors             int
}

// GenerateForClient gera as obrigações faltantes de um cliente para o
// mês de competência dado. Idempotente: uma segunda chamada após commit
// cria zero linhas novas. Devolve somente as obrigações criadas agora.
func (g *Generator) GenerateForClient(ctx context.Context, clientID string, year, month int, actingUserID string) ([]*entity.Obligation, error) {
	if year < 2000 || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: período %d-%02d", domain.ErrInvalidInput, year, month)
	}
	client, err := g.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}
	referenceMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return g.generate(ctx, client, referenceMonth, actingUserID)
}

// GenerateForAllClients roda a geração para todos os clientes ativos e
// não deletados, commitando por cliente. Uma falha de um cliente é
// contada e logada sem abortar o lote; clientes já commitados nunca são
// desfeitos.
func (g *Generator) GenerateForAllClients(ctx context.Context, year, month int, actingUserID string) (*BatchStats, error) {
	if year < 2000 || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: período %d-%02d", domain.ErrInvalidInput, year, month)
	}
	clients, err := g.clientRepo.ListActive()
	if err != nil {
		return nil, err
	}
	referenceMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	stats := &BatchStats{Clients: len(clients)}
	for _, client := range clients {
		created, err := g.generate(ctx, client, referenceMonth, actingUserID)
		if err != nil {
			stats.Errors++
			g.log.Warn().
				Err(err).
				Str("client_id", client.ID).
				Str("reference_month", referenceMonth.Format("2006-01")).
				Msg("geração falhou para o cliente; lote continua")
			continue
		}
		stats.ObligationsCreated += len(created)
	}
	g.log.Info().
		Int("clients", stats.Clients).
		Int("created", stats.ObligationsCreated).
		Int("errors", stats.Errors).
		Str("reference_month", referenceMonth.Format("2006-01")).
		Msg("geração em lote concluída")
	return stats, nil
}

// generate é o caminho por cliente: resolve estratégia, aplica o gate de
// elegibilidade, enumera tipos aplicáveis com competência no mês e cria
// os faltantes com evento CREATED, tudo numa transação.
func (g *Generator) generate(ctx context.Context, client *entity.Client, referenceMonth time.Time, actingUserID string) ([]*entity.Obligation, error) {
	strategy, err := rules.Resolve(client)
	if err != nil {
		return nil, err
	}
	if !strategy.ShouldGenerate(client) {
		return nil, nil
	}

	codes := strategy.ApplicableCodes(client)
	types, err := g.typeRepo.ListActiveByCodes(codes)
	if err != nil {
		return nil, err
	}
	// Código aplicável sem entrada ativa no catálogo é erro de
	// configuração: a geração segue sem ele, mas fica registrado.
	if len(types) < len(codes) {
		have := make(map[string]bool, len(types))
		for _, t := range types {
			have[t.Code] = true
		}
		var missing []string
		for _, code := range codes {
			if !have[code] {
				missing = append(missing, code)
			}
		}
		g.log.Warn().
			Str("client_id", client.ID).
			Strs("missing_codes", missing).
			Msg("códigos aplicáveis sem entrada ativa no catálogo; geração segue sem eles")
	}

	now := time.Now()
	var created []*entity.Obligation

	err = g.txRunner.Run(ctx, func(
		obligationRepo repository.ObligationRepository,
		eventRepo repository.ObligationEventRepository,
	) error {
		periodStart := referenceMonth
		periodEnd := referenceMonth.AddDate(0, 1, 0)
		existing, err := obligationRepo.ListByClientAndPeriod(client.ID, periodStart, periodEnd)
		if err != nil {
			return err
		}
		byType := make(map[string]*entity.Obligation, len(existing))
		for _, o := range existing {
			byType[o.ObligationTypeID] = o
		}

		for _, t := range types {
			if !rules.OccursInMonth(t.Recurrence, referenceMonth.Month()) {
				continue
			}
			if _, ok := byType[t.ID]; ok {
				continue
			}
			due := strategy.DueDate(t, referenceMonth)
			ob := &entity.Obligation{
				ID:               uuid.New().String(),
				ClientID:         client.ID,
				ObligationTypeID: t.ID,
				ReferenceMonth:   referenceMonth,
				DueDate:          due,
				Status:           entity.StatusPending,
				Priority:         strategy.Priority(t, due, now),
				Description:      fmt.Sprintf("%s — competência %s", t.Name, referenceMonth.Format("01/2006")),
				Amount:           t.DefaultAmount,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := obligationRepo.Create(ob); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					// Corrida entre gerações concorrentes: o índice único
					// decidiu; outra execução já criou esta linha.
					continue
				}
				return err
			}
			event := &entity.ObligationEvent{
				ID:           uuid.New().String(),
				ObligationID: ob.ID,
				UserID:       optionalUser(actingUserID),
				Type:         entity.EventCreated,
				Description:  fmt.Sprintf("obrigação %s gerada para a competência %s", t.Code, referenceMonth.Format("01/2006")),
				Payload: map[string]any{
					"reference_month": referenceMonth.Format("2006-01"),
					"due_date":        due.Format("2006-01-02"),
					"priority":        ob.Priority,
					"type_code":       t.Code,
				},
				CreatedAt: now,
			}
			if err := eventRepo.Create(event); err != nil {
				return err
			}
			created = append(created, ob)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Push best-effort depois do commit: uma mensagem "created" por
	// obrigação. Falha é logada e nunca desfaz a geração.
	nameByID := make(map[string]string, len(types))
	for _, t := range types {
		nameByID[t.ID] = t.Name
	}
	for _, ob := range created {
		n := lifecycle.Notification{
			Action:             "created",
			ObligationID:       ob.ID,
			ClientID:           ob.ClientID,
			ObligationTypeName: nameByID[ob.ObligationTypeID],
			NewStatus:          ob.Status,
		}
		if err := g.notifier.Notify(ctx, n); err != nil {
			g.log.Warn().Err(err).Str("obligation_id", ob.ID).Msg("notificação de criação falhou; ignorando")
		}
	}
	return created, nil
}

// ListDueSoon projeção de leitura: pendentes com vencimento nos próximos
// N dias a partir de now; com days <= 0 vale a janela configurada. Sem
// efeitos colaterais; consumida pelos colaboradores de lembrete.
func (g *Generator) ListDueSoon(_ context.Context, now time.Time, days int) ([]*entity.Obligation, error) {
	if days <= 0 {
		days = g.reminderDays
	}
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, days)
	return g.obsRepo.ListDueSoon(from, to)
}

// ListOverdue projeção de leitura: pendentes com vencimento no passado.
func (g *Generator) ListOverdue(_ context.Context, now time.Time) ([]*entity.Obligation, error) {
	asOf := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return g.obsRepo.ListOverdue(asOf)
}

func optionalUser(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
