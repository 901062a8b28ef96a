package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
	"github.com/contaflow/contaflow-api/pkg/logger"
)

// Nomes das operações de transição, usados nos erros de guarda.
const (
	opProcessReceipt = "process_receipt"
	opQuickComplete  = "quick_complete"
	opCancel         = "cancel"
	opReopen         = "reopen"
	opChangeDueDate  = "change_due_date"
	opMarkPending    = "mark_pending"
	opMarkInProgress = "mark_in_progress"
	opMarkOverdue    = "mark_overdue"
)

// Processor é a máquina de estados do ciclo de vida. Cada transição
// muta a obrigação e grava exatamente um evento na mesma transação;
// guarda violada devolve InvalidTransitionError nomeando o status atual
// e a operação — nunca no-op silencioso. Depois do commit, o colaborador
// de push é notificado em modo best-effort.
type Processor struct {
	txRunner TxRunner
	typeRepo repository.ObligationTypeRepository
	obsRepo  repository.ObligationRepository // leitura do sweep, fora de tx
	notifier Notifier
	log      *logger.Logger
}

// NewProcessor constrói o processor.
func NewProcessor(
	txRunner TxRunner,
	typeRepo repository.ObligationTypeRepository,
	obsRepo repository.ObligationRepository,
	notifier Notifier,
	log *logger.Logger,
) *Processor {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Processor{
		txRunner: txRunner,
		typeRepo: typeRepo,
		obsRepo:  obsRepo,
		notifier: notifier,
		log:      log,
	}
}

// ProcessReceipt conclui a obrigação registrando a referência do recibo.
func (p *Processor) ProcessReceipt(ctx context.Context, id, receiptRef, userID, notes string) (*entity.Obligation, error) {
	ob, err := p.update(ctx, id, func(ob *entity.Obligation, now time.Time) (*entity.ObligationEvent, error) {
		if ob.IsTerminal() {
			return nil, domain.NewInvalidTransition(ob.Status, opProcessReceipt)
		}
		old := ob.Status
		ob.Status = entity.StatusCompleted
		ob.CompletedAt = &now
		ob.CompletedBy = userID
		ob.ReceiptRef = receiptRef
		return &entity.ObligationEvent{
			UserID:      optionalUser(userID),
			Type:        entity.EventReceiptProcessed,
			Description: "recibo processado; obrigação concluída",
			Payload: map[string]any{
				"old_status":  old,
				"new_status":  entity.StatusCompleted,
				"receipt_ref": receiptRef,
				"notes":       notes,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p.notify(ctx, ob, "completed")
	return ob, nil
}

// QuickComplete conclui a obrigação sem recibo.
func (p *Processor) QuickComplete(ctx context.Context, id, userID string) (*entity.Obligation, error) {
	ob, err := p.update(ctx, id, func(ob *entity.Obligation, now time.Time) (*entity.ObligationEvent, error) {
		if ob.IsTerminal() {
			return nil, domain.NewInvalidTransition(ob.Status, opQuickComplete)
		}
		old := ob.Status
		ob.Status = entity.StatusCompleted
		ob.CompletedAt = &now
		ob.CompletedBy = userID
		return &entity.ObligationEvent{
			UserID:      optionalUser(userID),
			Type:        entity.EventStatusChanged,
			Description: "obrigação concluída sem recibo",
			Payload: map[string]any{
				"old_status": old,
				"new_status": entity.StatusCompleted,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p.notify(ctx, ob, "completed")
	return ob, nil
}

// Cancel cancela a obrigação. Só é alcançável de pending, in_progress
// ou overdue.
func (p *Processor) Cancel(ctx context.Context, id, reason, userID string) (*entity.Obligation, error) {
	ob, err := p.update(ctx, id, func(ob *entity.Obligation, _ time.Time) (*entity.ObligationEvent, error) {
		if ob.IsTerminal() {
			return nil, domain.NewInvalidTransition(ob.Status, opCancel)
		}
		old := ob.Status
		ob.Status = entity.StatusCancelled
		return &entity.ObligationEvent{
			UserID:      optionalUser(userID),
			Type:        entity.EventCancelled,
			Description: "obrigação cancelada: " + reason,
			Payload: map[string]any{
				"old_status": old,
				"new_status": entity.StatusCancelled,
				"reason":     reason,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p.notify(ctx, ob, "cancelled")
	return ob, nil
}

// Reopen devolve uma obrigação concluída a pending, limpando conclusão,
// usuário concluinte e recibo (override administrativo explícito).
func (p *Processor) Reopen(ctx context.Context, id, userID, notes string) (*entity.Obligation, error) {
	ob, err := p.update(ctx, id, func(ob *entity.Obligation, _ time.Time) (*entity.ObligationEvent, error) {
		if !ob.IsCompleted() {
			return nil, domain.NewInvalidTransition(ob.Status, opReopen)
		}
		ob.Status = entity.StatusPending
		ob.CompletedAt = nil
		ob.CompletedBy = ""
		ob.ReceiptRef = ""
		return &entity.ObligationEvent{
			UserID:      optionalUser(userID),
			Type:        entity.EventReopened,
			Description: "obrigação reaberta para pendente",
			Payload: map[string]any{
				"old_status": entity.StatusCompleted,
				"new_status": entity.StatusPending,
				"notes":      notes,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p.notify(ctx, ob, "reopened")
	return ob, nil
}

// ChangeDueDate altera o vencimento mantendo o status atual. Bloqueada
// apenas para obrigações já concluídas.
func (p *Processor) ChangeDueDate(ctx context.Context, id string, newDueDate time.Time, reason, userID string) (*entity.Obligation, error) {
	ob, err := p.update(ctx, id, func(ob *entity.Obligation, _ time.Time) (*entity.ObligationEvent, error) {
		if ob.IsCompleted() {
			return nil, domain.NewInvalidTransition(ob.Status, opChangeDueDate)
		}
		old := ob.DueDate
		ob.DueDate = newDueDate
		return &entity.ObligationEvent{
			UserID:      optionalUser(userID),
			Type:        entity.EventDueDateChanged,
			Description: "vencimento alterado: " + reason,
			Payload: map[string]any{
				"old_due_date": old.Format("2006-01-02"),
				"new_due_date": newDueDate.Format("2006-01-02"),
				"reason":       reason,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p.notify(ctx, ob, "due_date_changed")
	return ob, nil
}

// MarkPending devolve uma obrigação não terminal a pending (desfazer).
func (p *Processor) MarkPending(ctx context.Context, id, userID, notes string) (*entity.Obligation, error) {
	ob, err := p.update(ctx, id, func(ob *entity.Obligation, _ time.Time) (*entity.ObligationEvent, error) {
		if ob.IsTerminal() {
			return nil, domain.NewInvalidTransition(ob.Status, opMarkPending)
		}
		old := ob.Status
		ob.Status = entity.StatusPending
		return &entity.ObligationEvent{
			UserID:      optionalUser(userID),
			Type:        entity.EventStatusChanged,
			Description: "obrigação marcada como pendente",
			Payload: map[string]any{
				"old_status": old,
				"new_status": entity.StatusPending,
				"notes":      notes,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p.notify(ctx, ob, "status_changed")
	return ob, nil
}

// MarkInProgress sinaliza que alguém assumiu a obrigação.
func (p *Processor) MarkInProgress(ctx context.Context, id, userID string) (*entity.Obligation, error) {
	ob, err := p.update(ctx, id, func(ob *entity.Obligation, _ time.Time) (*entity.ObligationEvent, error) {
		if ob.IsTerminal() {
			return nil, domain.NewInvalidTransition(ob.Status, opMarkInProgress)
		}
		old := ob.Status
		ob.Status = entity.StatusInProgress
		return &entity.ObligationEvent{
			UserID:      optionalUser(userID),
			Type:        entity.EventStatusChanged,
			Description: "obrigação em andamento",
			Payload: map[string]any{
				"old_status": old,
				"new_status": entity.StatusInProgress,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p.notify(ctx, ob, "status_changed")
	return ob, nil
}

// MarkOverdue é o caminho do sweep: pending cujo vencimento passou vira
// overdue, com evento de sistema (sem usuário). Alcançável só de pending.
func (p *Processor) MarkOverdue(ctx context.Context, id string) (*entity.Obligation, error) {
	ob, err := p.update(ctx, id, func(ob *entity.Obligation, _ time.Time) (*entity.ObligationEvent, error) {
		if ob.Status != entity.StatusPending {
			return nil, domain.NewInvalidTransition(ob.Status, opMarkOverdue)
		}
		ob.Status = entity.StatusOverdue
		return &entity.ObligationEvent{
			Type:        entity.EventStatusChanged,
			Description: "vencimento ultrapassado sem ação; obrigação em atraso",
			Payload: map[string]any{
				"old_status": entity.StatusPending,
				"new_status": entity.StatusOverdue,
				"due_date":   ob.DueDate.Format("2006-01-02"),
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p.notify(ctx, ob, "status_changed")
	return ob, nil
}

// SweepOverdue varre as pendentes vencidas até now e as marca em atraso
// pelo mesmo caminho guardado. Devolve quantas foram marcadas; uma falha
// individual é logada e não interrompe a varredura.
func (p *Processor) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	asOf := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	overdue, err := p.obsRepo.ListOverdue(asOf)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, ob := range overdue {
		if _, err := p.MarkOverdue(ctx, ob.ID); err != nil {
			p.log.Warn().Err(err).Str("obligation_id", ob.ID).Msg("sweep: falha ao marcar atraso")
			continue
		}
		marked++
	}
	return marked, nil
}

// update carrega a obrigação, aplica fn (guarda + mutação + evento) e
// persiste mutação e evento na mesma transação. O timestamp do evento é
// atribuído aqui, pela mesma autoridade que commita a linha.
func (p *Processor) update(ctx context.Context, id string, fn func(ob *entity.Obligation, now time.Time) (*entity.ObligationEvent, error)) (*entity.Obligation, error) {
	var updated *entity.Obligation
	err := p.txRunner.Run(ctx, func(
		obligationRepo repository.ObligationRepository,
		eventRepo repository.ObligationEventRepository,
	) error {
		ob, err := obligationRepo.GetByID(id)
		if err != nil {
			return err
		}
		if ob == nil || ob.DeletedAt != nil {
			return domain.ErrObligationNotFound
		}
		now := time.Now()
		event, err := fn(ob, now)
		if err != nil {
			return err
		}
		ob.UpdatedAt = now
		if err := obligationRepo.Update(ob); err != nil {
			return err
		}
		event.ID = uuid.New().String()
		event.ObligationID = ob.ID
		event.CreatedAt = now
		if err := eventRepo.Create(event); err != nil {
			return err
		}
		updated = ob
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// notify emite a mensagem ao colaborador de push. Fire-and-forget:
// qualquer falha é logada e engolida, nunca desfaz a transição.
func (p *Processor) notify(ctx context.Context, ob *entity.Obligation, action string) {
	typeName := ""
	if t, err := p.typeRepo.GetByID(ob.ObligationTypeID); err == nil && t != nil {
		typeName = t.Name
	}
	n := Notification{
		Action:             action,
		ObligationID:       ob.ID,
		ClientID:           ob.ClientID,
		ObligationTypeName: typeName,
		NewStatus:          ob.Status,
		CompletedAt:        ob.CompletedAt,
	}
	if err := p.notifier.Notify(ctx, n); err != nil {
		p.log.Warn().Err(err).Str("obligation_id", ob.ID).Str("action", action).Msg("notificação de push falhou; ignorando")
	}
}

func optionalUser(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
