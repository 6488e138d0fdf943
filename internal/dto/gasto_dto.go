package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// GuardarGastoRequest is shared by create and update; the route decides which.
// Fecha ("2006-01-02") and Hora ("15:04:05") default to now when empty on create.
type GuardarGastoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2"`
	Monto       decimal.Decimal `json:"monto"        validate:"required,gt=0"`
	Fecha       string          `json:"fecha"        validate:"omitempty,datetime=2006-01-02"`
	Hora        string          `json:"hora"         validate:"omitempty,datetime=15:04:05"`
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
	Notas       *string         `json:"notas"`
	Pagado      bool            `json:"pagado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GastoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       string          `json:"fecha"`
	Hora        string          `json:"hora"`
	CategoriaID *string         `json:"categoria_id"`
	Categoria   *string         `json:"categoria,omitempty"`
	ProveedorID *string         `json:"proveedor_id"`
	Proveedor   *string         `json:"proveedor,omitempty"`
	Notas       *string         `json:"notas"`
	Pagado      bool            `json:"pagado"`
}

type GastoCategoriaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type GastoProveedorResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	CUIT     *string `json:"cuit"`
	Telefono *string `json:"telefono"`
}
