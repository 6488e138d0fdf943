package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"caffito/internal/dto"
	"caffito/internal/repository"

	"github.com/redis/go-redis/v9"
)

const resumenCacheTTL = 5 * time.Minute

type StatsService interface {
	ResumenIngresos(ctx context.Context, desde, hasta time.Time) (*dto.ResumenIngresosResponse, error)
	ResumenGastos(ctx context.Context, desde, hasta time.Time) (*dto.ResumenGastosResponse, error)
}

type statsService struct {
	repo repository.StatsRepository
	rdb  *redis.Client // nil disables the summary cache
}

func NewStatsService(repo repository.StatsRepository, rdb *redis.Client) StatsService {
	return &statsService{repo: repo, rdb: rdb}
}

func (s *statsService) ResumenIngresos(ctx context.Context, desde, hasta time.Time) (*dto.ResumenIngresosResponse, error) {
	cacheKey := "resumen:ingresos:" + desde.Format("2006-01-02") + ":" + hasta.Format("2006-01-02")
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		var resp dto.ResumenIngresosResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	total, err := s.repo.TotalIngresos(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	porMes, err := s.repo.IngresosPorMes(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	porTipo, err := s.repo.IngresosPorTipoPago(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResumenIngresosResponse{
		FechaInicio: desde.Format("2006-01-02"),
		FechaFin:    hasta.Format("2006-01-02"),
		Total:       total,
		PorMes:      porMes,
		PorTipoPago: porTipo,
	}
	s.toCache(cacheKey, resp)
	return resp, nil
}

func (s *statsService) ResumenGastos(ctx context.Context, desde, hasta time.Time) (*dto.ResumenGastosResponse, error) {
	cacheKey := "resumen:gastos:" + desde.Format("2006-01-02") + ":" + hasta.Format("2006-01-02")
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		var resp dto.ResumenGastosResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	total, err := s.repo.TotalGastos(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	porMes, err := s.repo.GastosPorMes(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	porCategoria, err := s.repo.GastosPorCategoria(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResumenGastosResponse{
		FechaInicio:  desde.Format("2006-01-02"),
		FechaFin:     hasta.Format("2006-01-02"),
		Total:        total,
		PorMes:       porMes,
		PorCategoria: porCategoria,
	}
	s.toCache(cacheKey, resp)
	return resp, nil
}

func (s *statsService) fromCache(ctx context.Context, key string) []byte {
	if s.rdb == nil {
		return nil
	}
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return b
}

// toCache populates the summary cache. Best effort, errors ignored.
func (s *statsService) toCache(key string, v any) {
	if s.rdb == nil {
		return
	}
	if b, err := json.Marshal(v); err == nil {
		_ = s.rdb.Set(context.Background(), key, b, resumenCacheTTL).Err()
	}
}

// ─── Date range helpers ──────────────────────────────────────────────────────

// RangoDia returns [00:00 of t's day, 00:00 of the next day).
func RangoDia(t time.Time) (time.Time, time.Time) {
	desde := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return desde, desde.AddDate(0, 0, 1)
}

// RangoSemana returns the Monday-to-Monday week containing t.
func RangoSemana(t time.Time) (time.Time, time.Time) {
	offset := (int(t.Weekday()) + 6) % 7
	lunes := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
	return lunes, lunes.AddDate(0, 0, 7)
}

// RangoMes returns the calendar month containing t.
func RangoMes(t time.Time) (time.Time, time.Time) {
	desde := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return desde, desde.AddDate(0, 1, 0)
}

// RangoAnio returns the calendar year containing t.
func RangoAnio(t time.Time) (time.Time, time.Time) {
	desde := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return desde, desde.AddDate(1, 0, 0)
}

// ResolverRango maps the periodo query value to a concrete half-open range.
// Explicit fechaInicio/fechaFin parameters take precedence over periodo.
func ResolverRango(periodo, fechaInicio, fechaFin string, now time.Time) (time.Time, time.Time, error) {
	if fechaInicio != "" || fechaFin != "" {
		d, err := time.Parse("2006-01-02", fechaInicio)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("fechaInicio inválida, formato esperado 2006-01-02")
		}
		h, err := time.Parse("2006-01-02", fechaFin)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("fechaFin inválida, formato esperado 2006-01-02")
		}
		if !h.After(d) {
			return time.Time{}, time.Time{}, errors.New("fechaFin debe ser posterior a fechaInicio")
		}
		return d, h, nil
	}

	switch periodo {
	case "", "dia":
		d, h := RangoDia(now)
		return d, h, nil
	case "semana":
		d, h := RangoSemana(now)
		return d, h, nil
	case "mes":
		d, h := RangoMes(now)
		return d, h, nil
	case "anio":
		d, h := RangoAnio(now)
		return d, h, nil
	default:
		return time.Time{}, time.Time{}, errors.New("periodo desconocido: use dia, semana, mes o anio")
	}
}
