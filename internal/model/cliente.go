package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer directory record.
// Nombre and Apellido are stored blank-padded to ClienteNombreWidth (legacy
// CHAR columns); trim before display. Deactivation is a soft delete.
type Cliente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string    `gorm:"type:char(50);not null"`
	Apellido        string    `gorm:"type:char(50);not null"`
	TipoDocumento   string    `gorm:"type:varchar(20);not null;default:'DNI'"`
	NumeroDocumento string    `gorm:"type:varchar(20);not null;index"`
	Mayorista       bool      `gorm:"not null;default:false"`
	Empleado        bool      `gorm:"not null;default:false"`
	Activo          bool      `gorm:"not null;default:true"`
	Telefono        *string
	Email           *string
	Direccion       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Cliente) TableName() string { return "clientes" }
