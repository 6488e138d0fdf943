package repository

import (
	"context"
	"time"

	"caffito/internal/dto"
	"caffito/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatsRepository serves the read-only aggregation queries behind the
// dashboard summaries. All queries are bounded by [desde, hasta).
type StatsRepository interface {
	TotalIngresos(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error)
	IngresosPorMes(ctx context.Context, desde, hasta time.Time) ([]dto.MesTotal, error)
	IngresosPorTipoPago(ctx context.Context, desde, hasta time.Time) ([]dto.TipoPagoTotal, error)

	TotalGastos(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error)
	GastosPorMes(ctx context.Context, desde, hasta time.Time) ([]dto.MesTotal, error)
	GastosPorCategoria(ctx context.Context, desde, hasta time.Time) ([]dto.CategoriaTotal, error)
}

type statsRepo struct{ db *gorm.DB }

func NewStatsRepository(db *gorm.DB) StatsRepository { return &statsRepo{db: db} }

func (r *statsRepo) TotalIngresos(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Ingreso{}).
		Select("SUM(monto)").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Scan(&total).Error
	return total.Decimal, err
}

func (r *statsRepo) IngresosPorMes(ctx context.Context, desde, hasta time.Time) ([]dto.MesTotal, error) {
	var rows []dto.MesTotal
	err := r.db.WithContext(ctx).
		Model(&model.Ingreso{}).
		Select("EXTRACT(YEAR FROM fecha)::int AS anio, EXTRACT(MONTH FROM fecha)::int AS mes, SUM(monto) AS total").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Group("anio, mes").
		Order("anio, mes").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) IngresosPorTipoPago(ctx context.Context, desde, hasta time.Time) ([]dto.TipoPagoTotal, error) {
	var rows []dto.TipoPagoTotal
	err := r.db.WithContext(ctx).
		Model(&model.Ingreso{}).
		Select("ingresos.tipo_pago_id, tipos_pago.nombre AS tipo_pago, SUM(ingresos.monto) AS total").
		Joins("JOIN tipos_pago ON tipos_pago.id = ingresos.tipo_pago_id").
		Where("ingresos.fecha >= ? AND ingresos.fecha < ?", desde, hasta).
		Group("ingresos.tipo_pago_id, tipos_pago.nombre").
		Order("ingresos.tipo_pago_id").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) TotalGastos(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Gasto{}).
		Select("SUM(monto)").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Scan(&total).Error
	return total.Decimal, err
}

func (r *statsRepo) GastosPorMes(ctx context.Context, desde, hasta time.Time) ([]dto.MesTotal, error) {
	var rows []dto.MesTotal
	err := r.db.WithContext(ctx).
		Model(&model.Gasto{}).
		Select("EXTRACT(YEAR FROM fecha)::int AS anio, EXTRACT(MONTH FROM fecha)::int AS mes, SUM(monto) AS total").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Group("anio, mes").
		Order("anio, mes").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) GastosPorCategoria(ctx context.Context, desde, hasta time.Time) ([]dto.CategoriaTotal, error) {
	var rows []dto.CategoriaTotal
	err := r.db.WithContext(ctx).
		Model(&model.Gasto{}).
		Select("COALESCE(gasto_categorias.nombre, 'Sin categoría') AS categoria, SUM(gastos.monto) AS total").
		Joins("LEFT JOIN gasto_categorias ON gasto_categorias.id = gastos.categoria_id").
		Where("gastos.fecha >= ? AND gastos.fecha < ?", desde, hasta).
		Group("gasto_categorias.nombre").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}
