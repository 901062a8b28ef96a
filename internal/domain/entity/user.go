package entity

import "time"

// Papéis válidos para User.
const (
	RoleAdmin      = "admin"
	RoleContador   = "contador"
	RoleAssistente = "assistente"
)

// User representa um usuário do escritório.
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, nunca em claro no domínio após persistir
	Name         string
	Role         string // admin, contador, assistente
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
