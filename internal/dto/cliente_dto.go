package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre          string  `json:"nombre"           validate:"required,min=3"`
	Apellido        string  `json:"apellido"         validate:"required,min=3"`
	TipoDocumento   string  `json:"tipo_documento"   validate:"omitempty,oneof=DNI CUIT CUIL LE LC PASAPORTE"`
	NumeroDocumento string  `json:"numero_documento" validate:"required,min=7"`
	Mayorista       bool    `json:"mayorista"`
	Empleado        bool    `json:"empleado"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"    validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
}

// DesactivarClienteRequest gates the soft delete: Confirmacion must be the
// literal word "desactivar" or the client stays active.
type DesactivarClienteRequest struct {
	Confirmacion string `json:"confirmacion" validate:"required"`
}

// ClienteFilter carries the optional substring filters of the list endpoint.
type ClienteFilter struct {
	Nombre   string
	Apellido string
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	Apellido        string  `json:"apellido"`
	TipoDocumento   string  `json:"tipo_documento"`
	NumeroDocumento string  `json:"numero_documento"`
	Mayorista       bool    `json:"mayorista"`
	Empleado        bool    `json:"empleado"`
	Activo          bool    `json:"activo"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	Direccion       *string `json:"direccion"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}
