package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MesTotal is one month bucket of a summary. Mes is 1-12.
type MesTotal struct {
	Anio  int             `json:"anio"`
	Mes   int             `json:"mes"`
	Total decimal.Decimal `json:"total"`
}

type TipoPagoTotal struct {
	TipoPagoID int             `json:"tipo_pago_id"`
	TipoPago   string          `json:"tipo_pago"`
	Total      decimal.Decimal `json:"total"`
}

type CategoriaTotal struct {
	Categoria string          `json:"categoria"`
	Total     decimal.Decimal `json:"total"`
}

type ResumenIngresosResponse struct {
	FechaInicio string          `json:"fecha_inicio"`
	FechaFin    string          `json:"fecha_fin"`
	Total       decimal.Decimal `json:"total"`
	PorMes      []MesTotal      `json:"por_mes"`
	PorTipoPago []TipoPagoTotal `json:"por_tipo_pago"`
}

type ResumenGastosResponse struct {
	FechaInicio  string           `json:"fecha_inicio"`
	FechaFin     string           `json:"fecha_fin"`
	Total        decimal.Decimal  `json:"total"`
	PorMes       []MesTotal       `json:"por_mes"`
	PorCategoria []CategoriaTotal `json:"por_categoria"`
}
