package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingreso is an income event attributed to an open caja and a payment type.
// Ingresos are append-only; the per-type sums drive the expected amounts of
// the closing reconciliation and the income statistics.
type Ingreso struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoPagoID  int             `gorm:"not null;index"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"not null"`
	Fecha       time.Time       `gorm:"not null;index"`
}

func (Ingreso) TableName() string { return "ingresos" }
