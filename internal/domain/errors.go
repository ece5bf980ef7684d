package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInactive               = errors.New("recurso inactivo")
	ErrUnknownTransactionType = errors.New("tipo de transacción desconocido")

	// ErrCorruptLedger una fila ya guardada del libro no se puede reproducir.
	ErrCorruptLedger = errors.New("libro de stock inconsistente")
)
