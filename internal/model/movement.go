package model

import (
	"fmt"
	"strings"
	"time"
)

// MovementKind classifies a stock-changing event. The stored values are
// the ones the application has always written, so existing database files
// keep working.
type MovementKind string

const (
	KindReceipt MovementKind = "ENTRADA"
	KindIssue   MovementKind = "SALIDA"
	KindReturn  MovementKind = "DEVOLUCION"
	KindLoss    MovementKind = "PERDIDA"
)

// Valid reports whether k is one of the four movement kinds.
func (k MovementKind) Valid() bool {
	switch k {
	case KindReceipt, KindIssue, KindReturn, KindLoss:
		return true
	}
	return false
}

// Adds reports whether the kind increases stock when applied forward.
func (k MovementKind) Adds() bool {
	return k == KindReceipt || k == KindReturn
}

// LossType is one of the four fixed loss subtypes.
type LossType string

const (
	LossTheft  LossType = "robo"
	LossWaste  LossType = "merma"
	LossExpiry LossType = "caducidad"
	LossDamage LossType = "daño"
)

// Valid reports whether t is one of the four loss subtypes.
func (t LossType) Valid() bool {
	switch t {
	case LossTheft, LossWaste, LossExpiry, LossDamage:
		return true
	}
	return false
}

// LossTypes lists the subtypes in the order reason tags are matched.
func LossTypes() []LossType {
	return []LossType{LossTheft, LossWaste, LossExpiry, LossDamage}
}

// Tag is the bracketed marker embedded in a loss movement's reason,
// e.g. "[ROBO]".
func (t LossType) Tag() string {
	return "[" + strings.ToUpper(string(t)) + "]"
}

// Movement is an immutable log entry for a single stock change. The
// product name is a snapshot taken when the movement is recorded, never
// re-joined, so history stays readable after the product is deleted.
type Movement struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time    `gorm:"not null" json:"timestamp"`
	Kind        MovementKind `gorm:"type:varchar(20);not null" json:"kind"`
	ProductCode string       `gorm:"type:varchar(50);not null" json:"product_code"`
	ProductName string       `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	Responsible string       `gorm:"type:varchar(100);not null" json:"responsible"`
	Reason      *string      `json:"reason,omitempty"`
}

// NewMovement validates and builds a movement. The timestamp defaults to
// now, truncated to the second (the log's on-disk precision). Reason is
// optional except for returns and losses.
func NewMovement(kind MovementKind, productCode, productName string, quantity int, responsible, reason string) (*Movement, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento inválido", ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a 0", ErrValidation)
	}
	responsible = strings.TrimSpace(responsible)
	if responsible == "" {
		return nil, fmt.Errorf("%w: el responsable no puede estar vacío", ErrValidation)
	}
	reason = strings.TrimSpace(reason)
	if (kind == KindReturn || kind == KindLoss) && reason == "" {
		return nil, fmt.Errorf("%w: el motivo es obligatorio", ErrValidation)
	}

	m := &Movement{
		Timestamp:   time.Now().Truncate(time.Second),
		Kind:        kind,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		Responsible: responsible,
	}
	if reason != "" {
		m.Reason = &reason
	}
	return m, nil
}

// NewLossMovement builds a PERDIDA movement whose reason carries the
// uppercased subtype tag, e.g. "[ROBO] hurto en estantería".
func NewLossMovement(productCode, productName string, quantity int, responsible string, lossType LossType, reason string) (*Movement, error) {
	if !lossType.Valid() {
		return nil, fmt.Errorf("%w: tipo de pérdida inválido", ErrValidation)
	}
	tagged := lossType.Tag() + " " + strings.TrimSpace(reason)
	if strings.TrimSpace(reason) == "" {
		// keep the constructor as the single place that rejects it
		tagged = ""
	}
	return NewMovement(KindLoss, productCode, productName, quantity, responsible, tagged)
}

// ReasonText returns the reason or "" when none was recorded.
func (m *Movement) ReasonText() string {
	if m.Reason == nil {
		return ""
	}
	return *m.Reason
}
