package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/contaflow/contaflow-api/internal/application/dto"
	"github.com/contaflow/contaflow-api/internal/domain"
	"github.com/contaflow/contaflow-api/internal/domain/entity"
	"github.com/contaflow/contaflow-api/internal/domain/repository"
)

// ClientUseCase aplica regras de negócio do cadastro de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase constrói o caso de uso com a porta de persistência.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create cadastra um cliente. Devolve domain.ErrDuplicate se o CNPJ já existe.
func (uc *ClientUseCase) Create(in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	existing, _ := uc.repo.GetByCNPJ(in.CNPJ)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TradeName: in.TradeName,
		CNPJ:      in.CNPJ,
		Email:     in.Email,
		Phone:     in.Phone,
		City:      in.City,
		State:     in.State,
		Category:  in.Category,
		TaxRegime: in.TaxRegime,
		Status:    entity.ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	resp := dto.NewClientResponse(client)
	return &resp, nil
}

// GetByID obtém um cliente por ID.
func (uc *ClientUseCase) GetByID(id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil || client.DeletedAt != nil {
		return nil, domain.ErrClientNotFound
	}
	resp := dto.NewClientResponse(client)
	return &resp, nil
}

// Update atualiza o cadastro; campos vazios do request são preservados.
func (uc *ClientUseCase) Update(id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil || client.DeletedAt != nil {
		return nil, domain.ErrClientNotFound
	}
	if in.Name != "" {
		client.Name = in.Name
	}
	if in.TradeName != "" {
		client.TradeName = in.TradeName
	}
	if in.Email != "" {
		client.Email = in.Email
	}
	if in.Phone != "" {
		client.Phone = in.Phone
	}
	if in.City != "" {
		client.City = in.City
	}
	if in.State != "" {
		client.State = in.State
	}
	if in.Category != "" {
		client.Category = in.Category
	}
	if in.TaxRegime != "" {
		client.TaxRegime = in.TaxRegime
	}
	if in.Status != "" {
		client.Status = in.Status
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	resp := dto.NewClientResponse(client)
	return &resp, nil
}

// List lista clientes com paginação.
func (uc *ClientUseCase) List(limit, offset int) (*dto.ClientListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete faz o soft delete do cliente; obrigações históricas permanecem.
func (uc *ClientUseCase) Delete(id string) error {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil || client.DeletedAt != nil {
		return domain.ErrClientNotFound
	}
	return uc.repo.SoftDelete(id, time.Now())
}
