package model

import "errors"

// Domain errors. Business failures are wrapped with fmt.Errorf("%w: ...")
// so callers keep the human-readable detail but can match with errors.Is.
var (
	ErrValidation              = errors.New("datos inválidos")
	ErrNotFound                = errors.New("producto no encontrado")
	ErrDuplicateCode           = errors.New("ya existe ese código")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrNothingToUndo           = errors.New("no hay operaciones para cancelar")
	ErrInsufficientStockToUndo = errors.New("stock insuficiente para cancelar")
)
