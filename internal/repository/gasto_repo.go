package repository

import (
	"context"

	"caffito/internal/dto"
	"caffito/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GastoRepository interface {
	DB() *gorm.DB

	CreateTx(tx *gorm.DB, g *model.Gasto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error)
	List(ctx context.Context, page dto.PageRequest, nombre string) ([]model.Gasto, error)
	Count(ctx context.Context, nombre string) (int64, error)
	UpdateTx(tx *gorm.DB, g *model.Gasto) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	ListCategorias(ctx context.Context) ([]model.GastoCategoria, error)
	ListProveedores(ctx context.Context) ([]model.GastoProveedor, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) DB() *gorm.DB { return r.db }

func (r *gastoRepo) CreateTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Create(g).Error
}

func (r *gastoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := r.db.WithContext(ctx).Preload("Categoria").Preload("Proveedor").First(&g, id).Error
	return &g, err
}

func (r *gastoRepo) filtered(ctx context.Context, nombre string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Gasto{})
	if nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+nombre+"%")
	}
	return q
}

func (r *gastoRepo) List(ctx context.Context, page dto.PageRequest, nombre string) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.filtered(ctx, nombre).
		Preload("Categoria").
		Preload("Proveedor").
		Order(page.Sort).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) Count(ctx context.Context, nombre string) (int64, error) {
	var total int64
	err := r.filtered(ctx, nombre).Count(&total).Error
	return total, err
}

func (r *gastoRepo) UpdateTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Omit("Categoria", "Proveedor").Save(g).Error
}

func (r *gastoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Gasto{}, id).Error
}

func (r *gastoRepo) ListCategorias(ctx context.Context) ([]model.GastoCategoria, error) {
	var categorias []model.GastoCategoria
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&categorias).Error
	return categorias, err
}

func (r *gastoRepo) ListProveedores(ctx context.Context) ([]model.GastoProveedor, error) {
	var proveedores []model.GastoProveedor
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&proveedores).Error
	return proveedores, err
}
