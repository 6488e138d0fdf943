package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caja represents a cash register session.
// Lifecycle: abierta (EnProceso=true) → cerrada. A closed caja never reopens,
// but its FlujoCaja lines may still be edited retroactively.
type Caja struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PuntoDeVenta       int             `gorm:"not null;index"`
	PuntoDeVentaNombre string          `gorm:"type:varchar(60)"`
	UsuarioID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioLogin       string          `gorm:"type:varchar(60);not null"`
	Inicio             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Cierre is NULL while the session is open; set to the sum of declared
	// amounts at close time, and shifted by the net delta on retroactive edits.
	Cierre    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	EnProceso bool             `gorm:"not null;default:true;index"`
	// Ingresos / Gastos are running totals accumulated during the session.
	Ingresos    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Gastos      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FechaInicio time.Time
	FechaFin    *time.Time

	Flujos []FlujoCaja `gorm:"foreignKey:CajaID"`
}

func (Caja) TableName() string { return "cajas" }

// FlujoCaja is one per-payment-type reconciliation line of a session close.
// Invariant: Diferencia = Ingreso − Pendiente, recomputed whenever Ingreso changes.
// One line exists per known payment type, zero amounts included.
type FlujoCaja struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaID     uuid.UUID `gorm:"type:uuid;not null;index"`
	TipoPagoID int       `gorm:"not null;index"`
	// TipoPagoNombre is stored blank-padded to TipoPagoNombreWidth for
	// compatibility with the legacy schema. Trim before display.
	TipoPagoNombre string          `gorm:"type:char(30);not null"`
	Ingreso        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Pendiente      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Egreso         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Motivo         *string
	Diferencia     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha          time.Time
}

func (FlujoCaja) TableName() string { return "flujos_caja" }

// TipoPago is the fixed payment-type catalog. Rows are seeded at startup and
// referenced by FlujoCaja and Ingreso; IDs are stable legacy identifiers.
type TipoPago struct {
	ID     int    `gorm:"primaryKey"`
	Nombre string `gorm:"type:varchar(60);not null;uniqueIndex"`
	Activo bool   `gorm:"not null;default:true"`
}

func (TipoPago) TableName() string { return "tipos_pago" }

// Canonical payment-type catalog. Seeded idempotently by infra.NewDatabase.
const (
	TipoPagoEfectivo       = 1
	TipoPagoDebito         = 2
	TipoPagoCredito        = 3
	TipoPagoCtaCorriente   = 4
	TipoPagoCtaCtProveedor = 5
)

// TiposPagoCatalogo returns the canonical catalog in display order.
func TiposPagoCatalogo() []TipoPago {
	return []TipoPago{
		{ID: TipoPagoEfectivo, Nombre: "Efectivo", Activo: true},
		{ID: TipoPagoDebito, Nombre: "Tarjeta Débito", Activo: true},
		{ID: TipoPagoCredito, Nombre: "Tarjeta Crédito", Activo: true},
		{ID: TipoPagoCtaCorriente, Nombre: "Cuenta Corriente", Activo: true},
		{ID: TipoPagoCtaCtProveedor, Nombre: "Cuenta Corriente Proveedor", Activo: true},
	}
}
