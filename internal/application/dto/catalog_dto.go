package dto

import "time"

// ServiceTypeRequest alta o edición de un tipo de servicio.
type ServiceTypeRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Company     string `json:"company" validate:"omitempty,max=200"`
	Responsible string `json:"responsible" validate:"omitempty,max=200"`
}

// ServiceTypeResponse salida de un tipo de servicio.
type ServiceTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Responsible string    `json:"responsible"`
	CreatedAt   time.Time `json:"created_at"`
}

// TechnicianRequest alta o edición de un técnico.
// Al crear, si no se informa Password se usa el CPF (solo dígitos) como contraseña inicial.
type TechnicianRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Registration  string `json:"registration" validate:"required,min=1,max=60"`
	CPF           string `json:"cpf" validate:"omitempty,max=20"`
	Phone         string `json:"phone" validate:"omitempty,max=40"`
	Email         string `json:"email" validate:"omitempty,email"`
	Area          string `json:"area" validate:"omitempty,max=120"`
	ServiceTypeID string `json:"service_type_id" validate:"omitempty,uuid"`
	Password      string `json:"password" validate:"omitempty,min=6"`
}

// TechnicianStatusRequest cambio de estado Ativo/Inativo.
type TechnicianStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Ativo Inativo"`
}

// TechnicianResponse salida de un técnico.
type TechnicianResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Registration  string    `json:"registration"`
	CPF           string    `json:"cpf"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Area          string    `json:"area"`
	Status        string    `json:"status"`
	ServiceTypeID string    `json:"service_type_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PartnerCompanyRequest alta o edición de una empresa parceira.
type PartnerCompanyRequest struct {
	LegalName     string `json:"legal_name" validate:"required,min=1,max=200"`
	CNPJ          string `json:"cnpj" validate:"omitempty,max=20"`
	Address       string `json:"address"`
	Contact       string `json:"contact"`
	ServiceTypeID string `json:"service_type_id" validate:"omitempty,uuid"`
	Notes         string `json:"notes"`
}

// PartnerCompanyResponse salida de una empresa parceira.
type PartnerCompanyResponse struct {
	ID            string    `json:"id"`
	LegalName     string    `json:"legal_name"`
	CNPJ          string    `json:"cnpj"`
	Address       string    `json:"address"`
	Contact       string    `json:"contact"`
	ServiceTypeID string    `json:"service_type_id,omitempty"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}
