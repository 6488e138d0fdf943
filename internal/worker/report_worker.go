package worker

// report_worker.go
// Processes closing report jobs from QueueReportes: renders the PDF for a
// closed caja and mails it to the back office. SMTP calls go through the
// circuit breaker; exhausted jobs land in the DLQ for manual inspection.

import (
	"context"
	"encoding/json"
	"fmt"

	"caffito/internal/infra"
	"caffito/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxReporteAttempts = 3

type ReporteWorker struct {
	repo        repository.CajaRepository
	mailer      *infra.Mailer
	cb          *infra.CircuitBreaker
	rdb         *redis.Client
	storagePath string
	reportEmail string
}

func NewReporteWorker(repo repository.CajaRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client, storagePath, reportEmail string) *ReporteWorker {
	return &ReporteWorker{
		repo:        repo,
		mailer:      mailer,
		cb:          cb,
		rdb:         rdb,
		storagePath: storagePath,
		reportEmail: reportEmail,
	}
}

// Process renders and mails one closing report.
func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReporteCierrePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}
	cajaID, err := uuid.Parse(payload.CajaID)
	if err != nil {
		log.Error().Str("caja_id", payload.CajaID).Msg("report_worker: malformed caja_id")
		return
	}

	caja, err := w.repo.FindByID(ctx, cajaID)
	if err != nil {
		log.Error().Err(err).Str("caja_id", payload.CajaID).Msg("report_worker: caja not found")
		return
	}
	if caja.EnProceso {
		log.Warn().Str("caja_id", payload.CajaID).Msg("report_worker: caja still open — skipping")
		return
	}

	pdfPath, err := infra.GenerateReporteCierrePDF(caja, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("caja_id", payload.CajaID).Msg("report_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueReportes, "reporte_cierre", raw, "pdf: "+err.Error(), 1)
		return
	}

	if w.reportEmail == "" {
		log.Debug().Str("caja_id", payload.CajaID).Msg("report_worker: no report email configured, PDF kept on disk")
		return
	}

	subject := fmt.Sprintf("Cierre de caja %s (PDV %d)", caja.PuntoDeVentaNombre, caja.PuntoDeVenta)
	body := fmt.Sprintf("Se adjunta el reporte de cierre de la caja del %s, cajero %s.",
		caja.FechaInicio.Format("02/01/2006"), caja.UsuarioLogin)

	var lastErr error
	for attempt := 1; attempt <= maxReporteAttempts; attempt++ {
		lastErr = w.cb.Execute(func() error {
			return w.mailer.SendReporteCierre(w.reportEmail, subject, body, pdfPath)
		})
		if lastErr == nil {
			log.Info().Str("caja_id", payload.CajaID).Msg("report_worker: closing report sent")
			return
		}
		if lastErr == infra.ErrCircuitOpen {
			break // no point retrying against an open breaker
		}
	}

	SendToDLQ(ctx, w.rdb, QueueReportes, "reporte_cierre", raw, lastErr.Error(), maxReporteAttempts)
}
