package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Role         string `json:"role" validate:"required,oneof=admin estoque tecnica tecnico"`
	TechnicianID string `json:"technician_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest actualización parcial de un usuario.
type UpdateUserRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role         *string `json:"role" validate:"omitempty,oneof=admin estoque tecnica tecnico"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Password     *string `json:"password" validate:"omitempty,min=6"`
	TechnicianID *string `json:"technician_id" validate:"omitempty,uuid"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	TechnicianID string    `json:"technician_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
