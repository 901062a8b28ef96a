package usecase

import (
	"github.com/contaflow/contaflow-api/internal/application/dto"
	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

// ObligationQueryUseCase projeções de leitura sobre obrigações: listagem
// com filtros, detalhe enriquecido e timeline de auditoria. Nenhuma
// operação aqui tem efeito colateral.
type ObligationQueryUseCase struct {
	obsRepo    repository.ObligationRepository
	eventRepo  repository.ObligationEventRepository
	typeRepo   repository.ObligationTypeRepository
	clientRepo repository.ClientRepository
}

// NewObligationQueryUseCase constrói o caso de uso de leitura.
func NewObligationQueryUseCase(
	obsRepo repository.ObligationRepository,
	eventRepo repository.ObligationEventRepository,
	typeRepo repository.ObligationTypeRepository,
	clientRepo repository.ClientRepository,
) *ObligationQueryUseCase {
	return &ObligationQueryUseCase{
		obsRepo:    obsRepo,
		eventRepo:  eventRepo,
		typeRepo:   typeRepo,
		clientRepo: clientRepo,
	}
}

// List lista obrigações por cliente/status/ano/mês com paginação.
func (uc *ObligationQueryUseCase) List(q dto.ListObligationsQuery) (*dto.ObligationListResponse, error) {
	q.DefaultPage()
	filter := repository.ObligationFilter{
		ClientID: q.ClientID,
		Status:   q.Status,
		Year:     q.Year,
		Month:    q.Month,
	}
	list, err := uc.obsRepo.List(filter, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.obsRepo.Count(filter)
	if err != nil {
		return nil, err
	}
	items := uc.enrich(list)
	return &dto.ObligationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Get detalhe de uma obrigação enriquecido com tipo e cliente.
func (uc *ObligationQueryUseCase) Get(id string) (*dto.ObligationResponse, error) {
	ob, err := uc.obsRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ob == nil || ob.DeletedAt != nil {
		return nil, domain.ErrObligationNotFound
	}
	typ, _ := uc.typeRepo.GetByID(ob.ObligationTypeID)
	client, _ := uc.clientRepo.GetByID(ob.ClientID)
	resp := dto.NewObligationResponse(ob, typ, client)
	return &resp, nil
}

// Timeline devolve o histórico de auditoria paginado, mais recente primeiro.
func (uc *ObligationQueryUseCase) Timeline(obligationID string, page dto.PageRequest) (*dto.EventListResponse, error) {
	ob, err := uc.obsRepo.GetByID(obligationID)
	if err != nil {
		return nil, err
	}
	if ob == nil {
		return nil, domain.ErrObligationNotFound
	}
	page.DefaultPage()
	events, err := uc.eventRepo.ListByObligation(obligationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.eventRepo.CountByObligation(obligationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, dto.NewEventResponse(e))
	}
	return &dto.EventListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// enrich carrega tipos e clientes referenciados em batch simples por
// cache local da listagem.
func (uc *ObligationQueryUseCase) enrich(list []*entity.Obligation) []dto.ObligationResponse {
	typeCache := make(map[string]*entity.ObligationType)
	clientCache := make(map[string]*entity.Client)
	items := make([]dto.ObligationResponse, 0, len(list))
	for _, ob := range list {
		typ, ok := typeCache[ob.ObligationTypeID]
		if !ok {
			typ, _ = uc.typeRepo.GetByID(ob.ObligationTypeID)
			typeCache[ob.ObligationTypeID] = typ
		}
		client, ok := clientCache[ob.ClientID]
		if !ok {
			client, _ = uc.clientRepo.GetByID(ob.ClientID)
			clientCache[ob.ClientID] = client
		}
		items = append(items, dto.NewObligationResponse(ob, typ, client))
	}
	return items
}
