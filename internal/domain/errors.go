package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("estoque insuficiente")
	ErrInsufficientBalance = errors.New("saldo del técnico insuficiente")
	ErrAlreadyFinalized    = errors.New("el documento ya fue finalizado")
	ErrNothingTransferred  = errors.New("ningún ítem pudo ser movido")
	ErrNothingCounted      = errors.New("ningún ítem contado")
	ErrNotEquipment        = errors.New("el ítem no es un equipo")
)
