package repository

import (
	"context"

	"caffito/internal/dto"
	"caffito/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, page dto.PageRequest, filter dto.ClienteFilter) ([]model.Cliente, error)
	Count(ctx context.Context, filter dto.ClienteFilter) (int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) filtered(ctx context.Context, filter dto.ClienteFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Apellido != "" {
		q = q.Where("apellido ILIKE ?", "%"+filter.Apellido+"%")
	}
	return q
}

func (r *clienteRepo) List(ctx context.Context, page dto.PageRequest, filter dto.ClienteFilter) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.filtered(ctx, filter).
		Order(page.Sort).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Count(ctx context.Context, filter dto.ClienteFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, filter).Count(&total).Error
	return total, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false).Error
}
