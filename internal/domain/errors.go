package domain

import (
	"errors"
	"fmt"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrClientNotFound     = errors.New("cliente não encontrado")
	ErrObligationNotFound = errors.New("obrigação não encontrada")
	ErrTypeNotFound       = errors.New("tipo de obrigação não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("o e-mail já está cadastrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")

	// ErrStrategyNotConfigured indica categoria de empresa sem estratégia
	// de geração registrada (erro de configuração, não do chamador).
	ErrStrategyNotConfigured = errors.New("categoria de empresa sem estratégia configurada")
)

// InvalidTransitionError descreve uma transição de ciclo de vida rejeitada,
// nomeando o status atual da obrigação e a operação tentada.
type InvalidTransitionError struct {
	Status    string
	Operation string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transição inválida: operação %q não permitida no status %q", e.Operation, e.Status)
}

// NewInvalidTransition constrói o erro de guarda do Processor.
func NewInvalidTransition(status, operation string) error {
	return &InvalidTransitionError{Status: status, Operation: operation}
}

// IsInvalidTransition informa se err é (ou embrulha) uma violação de guarda.
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
