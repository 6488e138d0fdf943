package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gasto is an expense record. Fecha and Hora default to "now" on creation.
// When a caja is open at creation time, the gasto is attributed to it and the
// session's running expense total is bumped in the same transaction.
type Gasto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string          `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha       time.Time       `gorm:"type:date;not null;index"`
	Hora        string          `gorm:"type:varchar(8);not null"`
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	ProveedorID *uuid.UUID      `gorm:"type:uuid;index"`
	CajaID      *uuid.UUID      `gorm:"type:uuid;index"`
	Notas       *string
	Pagado      bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *GastoCategoria `gorm:"foreignKey:CategoriaID"`
	Proveedor *GastoProveedor `gorm:"foreignKey:ProveedorID"`
}

func (Gasto) TableName() string { return "gastos" }

// GastoCategoria classifies expenses for the statistics views.
type GastoCategoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GastoCategoria) TableName() string { return "gasto_categorias" }

// GastoProveedor is a lightweight supplier reference for expenses.
type GastoProveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	CUIT      *string   `gorm:"column:cuit"`
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GastoProveedor) TableName() string { return "gasto_proveedors" }
