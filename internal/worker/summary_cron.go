package worker

// summary_cron.go
// Background goroutine that periodically recomputes today's income and
// expense summaries and refreshes their cache entries, so dashboard reads
// stay warm even between requests.

import (
	"context"
	"encoding/json"
	"time"

	"caffito/internal/dto"
	"caffito/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	resumenTickInterval = 5 * time.Minute
	resumenCacheTTL     = 10 * time.Minute
)

// ResumenCronConfig holds all dependencies for the summary refresh goroutine.
type ResumenCronConfig struct {
	StatsRepo repository.StatsRepository
	RDB       *redis.Client
}

// StartResumenCron launches a goroutine that refreshes today's summary cache
// on a fixed tick. It respects the context for graceful shutdown.
func StartResumenCron(ctx context.Context, cfg ResumenCronConfig) {
	go func() {
		ticker := time.NewTicker(resumenTickInterval)
		defer ticker.Stop()

		log.Info().Msg("resumen_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("resumen_cron: shutting down")
				return
			case <-ticker.C:
				refreshResumenes(ctx, cfg)
			}
		}
	}()
}

func refreshResumenes(ctx context.Context, cfg ResumenCronConfig) {
	now := time.Now()
	desde := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	hasta := desde.AddDate(0, 0, 1)

	if err := refreshIngresos(ctx, cfg, desde, hasta); err != nil {
		log.Error().Err(err).Msg("resumen_cron: failed to refresh income summary")
	}
	if err := refreshGastos(ctx, cfg, desde, hasta); err != nil {
		log.Error().Err(err).Msg("resumen_cron: failed to refresh expense summary")
	}
}

func refreshIngresos(ctx context.Context, cfg ResumenCronConfig, desde, hasta time.Time) error {
	total, err := cfg.StatsRepo.TotalIngresos(ctx, desde, hasta)
	if err != nil {
		return err
	}
	porMes, err := cfg.StatsRepo.IngresosPorMes(ctx, desde, hasta)
	if err != nil {
		return err
	}
	porTipo, err := cfg.StatsRepo.IngresosPorTipoPago(ctx, desde, hasta)
	if err != nil {
		return err
	}
	resp := dto.ResumenIngresosResponse{
		FechaInicio: desde.Format("2006-01-02"),
		FechaFin:    hasta.Format("2006-01-02"),
		Total:       total,
		PorMes:      porMes,
		PorTipoPago: porTipo,
	}
	key := "resumen:ingresos:" + desde.Format("2006-01-02") + ":" + hasta.Format("2006-01-02")
	return writeCache(ctx, cfg.RDB, key, resp)
}

func refreshGastos(ctx context.Context, cfg ResumenCronConfig, desde, hasta time.Time) error {
	total, err := cfg.StatsRepo.TotalGastos(ctx, desde, hasta)
	if err != nil {
		return err
	}
	porMes, err := cfg.StatsRepo.GastosPorMes(ctx, desde, hasta)
	if err != nil {
		return err
	}
	porCategoria, err := cfg.StatsRepo.GastosPorCategoria(ctx, desde, hasta)
	if err != nil {
		return err
	}
	resp := dto.ResumenGastosResponse{
		FechaInicio:  desde.Format("2006-01-02"),
		FechaFin:     hasta.Format("2006-01-02"),
		Total:        total,
		PorMes:       porMes,
		PorCategoria: porCategoria,
	}
	key := "resumen:gastos:" + desde.Format("2006-01-02") + ":" + hasta.Format("2006-01-02")
	return writeCache(ctx, cfg.RDB, key, resp)
}

func writeCache(ctx context.Context, rdb *redis.Client, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, resumenCacheTTL).Err()
}
