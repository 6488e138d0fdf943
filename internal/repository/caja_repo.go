package repository

import (
	"context"

	"caffito/internal/dto"
	"caffito/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaRepository interface {
	// DB exposes the underlying handle so services can run multi-write
	// operations inside a single transaction. Nil in unit tests.
	DB() *gorm.DB

	Create(ctx context.Context, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	FindEnProcesoPorPDV(ctx context.Context, puntoDeVenta int) (*model.Caja, error)
	FindEnProcesoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Caja, error)
	List(ctx context.Context, page dto.PageRequest) ([]model.Caja, error)
	Count(ctx context.Context) (int64, error)
	UpdateTx(tx *gorm.DB, c *model.Caja) error

	CreateFlujoTx(tx *gorm.DB, f *model.FlujoCaja) error
	UpdateFlujoTx(tx *gorm.DB, f *model.FlujoCaja) error
	FindFlujoByID(ctx context.Context, id uuid.UUID) (*model.FlujoCaja, error)

	CreateIngresoTx(tx *gorm.DB, i *model.Ingreso) error
	SumIngresosPorTipo(ctx context.Context, cajaID uuid.UUID) (map[int]decimal.Decimal, error)

	ListTiposPago(ctx context.Context) ([]model.TipoPago, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Preload("Flujos").First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) FindEnProcesoPorPDV(ctx context.Context, puntoDeVenta int) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Where("punto_de_venta = ? AND en_proceso = true", puntoDeVenta).First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindEnProcesoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Preload("Flujos").Where("usuario_id = ? AND en_proceso = true", usuarioID).First(&c).Error
	return &c, err
}

func (r *cajaRepo) List(ctx context.Context, page dto.PageRequest) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).
		Preload("Flujos").
		Order(page.Sort).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Caja{}).Count(&total).Error
	return total, err
}

func (r *cajaRepo) UpdateTx(tx *gorm.DB, c *model.Caja) error {
	return tx.Omit("Flujos").Save(c).Error
}

func (r *cajaRepo) CreateFlujoTx(tx *gorm.DB, f *model.FlujoCaja) error {
	return tx.Create(f).Error
}

func (r *cajaRepo) UpdateFlujoTx(tx *gorm.DB, f *model.FlujoCaja) error {
	return tx.Save(f).Error
}

func (r *cajaRepo) FindFlujoByID(ctx context.Context, id uuid.UUID) (*model.FlujoCaja, error) {
	var f model.FlujoCaja
	err := r.db.WithContext(ctx).First(&f, id).Error
	return &f, err
}

func (r *cajaRepo) CreateIngresoTx(tx *gorm.DB, i *model.Ingreso) error {
	return tx.Create(i).Error
}

func (r *cajaRepo) SumIngresosPorTipo(ctx context.Context, cajaID uuid.UUID) (map[int]decimal.Decimal, error) {
	type row struct {
		TipoPagoID int
		Total      decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Ingreso{}).
		Select("tipo_pago_id, COALESCE(SUM(monto), 0) AS total").
		Where("caja_id = ?", cajaID).
		Group("tipo_pago_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[int]decimal.Decimal, len(rows))
	for _, r := range rows {
		sums[r.TipoPagoID] = r.Total
	}
	return sums, nil
}

func (r *cajaRepo) ListTiposPago(ctx context.Context) ([]model.TipoPago, error) {
	var tipos []model.TipoPago
	err := r.db.WithContext(ctx).Where("activo = true").Order("id ASC").Find(&tipos).Error
	return tipos, err
}
