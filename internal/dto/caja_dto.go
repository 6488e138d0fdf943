package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	PuntoDeVenta       int             `json:"punto_de_venta" validate:"required,min=1"`
	PuntoDeVentaNombre string          `json:"punto_de_venta_nombre"`
	Inicio             decimal.Decimal `json:"inicio" validate:"min=0"`
}

type RegistrarIngresoRequest struct {
	TipoPagoID  int             `json:"tipo_pago_id" validate:"required,min=1"`
	Monto       decimal.Decimal `json:"monto"        validate:"required,gt=0"`
	Descripcion string          `json:"descripcion"  validate:"required,min=3"`
}

// CierreEntrada is one declared amount per payment type at closing.
type CierreEntrada struct {
	TipoPagoID int             `json:"tipo_pago_id" validate:"required,min=1"`
	Monto      decimal.Decimal `json:"monto"        validate:"min=0"`
}

type CerrarCajaRequest struct {
	Entradas []CierreEntrada `json:"entradas" validate:"required,min=1,dive"`
}

// LineaCierreInput is one edited closing amount in the batch edit.
// Types absent from the request keep their stored amount.
type LineaCierreInput struct {
	TipoPagoID int             `json:"tipo_pago_id" validate:"required,min=1"`
	Ingreso    decimal.Decimal `json:"ingreso"      validate:"min=0"`
}

type EditarCierreRequest struct {
	Lineas []LineaCierreInput `json:"lineas" validate:"required,min=1,dive"`
}

type ActualizarFlujoRequest struct {
	Ingreso decimal.Decimal  `json:"ingreso" validate:"min=0"`
	Egreso  *decimal.Decimal `json:"egreso"`
	Motivo  *string          `json:"motivo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TipoPagoResponse struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

type FlujoCajaResponse struct {
	ID         string           `json:"id"`
	CajaID     string           `json:"caja_id"`
	TipoPagoID int              `json:"tipo_pago_id"`
	TipoPago   string           `json:"tipo_pago"`
	Ingreso    decimal.Decimal  `json:"ingreso"`
	Pendiente  decimal.Decimal  `json:"pendiente"`
	Egreso     *decimal.Decimal `json:"egreso,omitempty"`
	Motivo     *string          `json:"motivo,omitempty"`
	Diferencia decimal.Decimal  `json:"diferencia"`
	Fecha      string           `json:"fecha"`
}

type CajaResponse struct {
	ID                 string              `json:"id"`
	PuntoDeVenta       int                 `json:"punto_de_venta"`
	PuntoDeVentaNombre string              `json:"punto_de_venta_nombre"`
	UsuarioID          string              `json:"usuario_id"`
	UsuarioLogin       string              `json:"usuario_login"`
	Inicio             decimal.Decimal     `json:"inicio"`
	Cierre             *decimal.Decimal    `json:"cierre"`
	EnProceso          bool                `json:"enproceso"`
	Ingresos           decimal.Decimal     `json:"ingresos"`
	Gastos             decimal.Decimal     `json:"gastos"`
	FechaInicio        string              `json:"fecha_inicio"`
	FechaFin           *string             `json:"fecha_fin"`
	Flujos             []FlujoCajaResponse `json:"flujos,omitempty"`
}

// CierreResponse reports the reconciliation outcome of a close.
// Clasificacion: "favorable" (diferencia ≥ 0) | "desfavorable"
type CierreResponse struct {
	Caja          CajaResponse    `json:"caja"`
	Total         decimal.Decimal `json:"total"`
	Esperado      decimal.Decimal `json:"esperado"`
	Diferencia    decimal.Decimal `json:"diferencia"`
	Clasificacion string          `json:"clasificacion"`
}
