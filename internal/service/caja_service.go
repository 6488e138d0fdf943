package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caffito/internal/dto"
	"caffito/internal/model"
	"caffito/internal/repository"
	"caffito/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, usuarioLogin string, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	// Actual is the single session-state provider: every page asks here
	// instead of polling its own copy of the open session.
	Actual(ctx context.Context, usuarioID uuid.UUID) (*dto.CajaResponse, error)
	RegistrarIngreso(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarIngresoRequest) error
	Cerrar(ctx context.Context, cajaID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreResponse, error)
	EditarCierre(ctx context.Context, cajaID uuid.UUID, req dto.EditarCierreRequest) (*dto.CajaResponse, error)
	ActualizarFlujo(ctx context.Context, flujoID uuid.UUID, req dto.ActualizarFlujoRequest) (*dto.FlujoCajaResponse, error)
	Listar(ctx context.Context, page dto.PageRequest) ([]dto.CajaResponse, error)
	Contar(ctx context.Context) (int64, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error)
	TiposPago(ctx context.Context) ([]dto.TipoPagoResponse, error)
}

type cajaService struct {
	repo       repository.CajaRepository
	dispatcher *worker.Dispatcher // nil disables async closing reports
}

func NewCajaService(repo repository.CajaRepository, dispatcher *worker.Dispatcher) CajaService {
	return &cajaService{repo: repo, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, usuarioLogin string, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	if req.Inicio.IsNegative() {
		return nil, errors.New("el monto inicial no puede ser negativo")
	}

	// Guard: no duplicate open session per punto de venta nor per usuario.
	// Only ErrRecordNotFound means "no open session"; any other repo error
	// must abort the opening instead of slipping past the guard.
	existing, err := s.repo.FindEnProcesoPorPDV(ctx, req.PuntoDeVenta)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && existing != nil {
		return nil, errors.New("ya existe una caja en proceso en este punto de venta")
	}
	existing, err = s.repo.FindEnProcesoPorUsuario(ctx, usuarioID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && existing != nil {
		return nil, errors.New("el usuario ya tiene una caja en proceso")
	}

	caja := &model.Caja{
		PuntoDeVenta:       req.PuntoDeVenta,
		PuntoDeVentaNombre: req.PuntoDeVentaNombre,
		UsuarioID:          usuarioID,
		UsuarioLogin:       usuarioLogin,
		Inicio:             req.Inicio,
		Ingresos:           decimal.Zero,
		Gastos:             decimal.Zero,
		EnProceso:          true,
		FechaInicio:        time.Now(),
	}
	if err := s.repo.Create(ctx, caja); err != nil {
		return nil, err
	}
	return cajaToResponse(caja), nil
}

// ── Actual ────────────────────────────────────────────────────────────────────

func (s *cajaService) Actual(ctx context.Context, usuarioID uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindEnProcesoPorUsuario(ctx, usuarioID)
	if err != nil || caja == nil {
		return nil, nil
	}
	return cajaToResponse(caja), nil
}

// ── RegistrarIngreso ──────────────────────────────────────────────────────────
// Income events are append-only; they bump the session's running total and
// feed the per-type expected amounts at close time.

func (s *cajaService) RegistrarIngreso(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarIngresoRequest) error {
	caja, err := s.repo.FindEnProcesoPorUsuario(ctx, usuarioID)
	if err != nil || caja == nil {
		return errors.New("no hay una caja en proceso")
	}
	if _, err := s.tipoPago(ctx, req.TipoPagoID); err != nil {
		return err
	}

	ingreso := &model.Ingreso{
		CajaID:      caja.ID,
		TipoPagoID:  req.TipoPagoID,
		Monto:       req.Monto,
		Descripcion: req.Descripcion,
		Fecha:       time.Now(),
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateIngresoTx(tx, ingreso); err != nil {
			return err
		}
		caja.Ingresos = caja.Ingresos.Add(req.Monto)
		return s.repo.UpdateTx(tx, caja)
	})
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Creates one FlujoCaja per catalog payment type (zero amounts included),
// closes the session, and reports declared vs expected. The whole close is a
// single transaction.

func (s *cajaService) Cerrar(ctx context.Context, cajaID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreResponse, error) {
	caja, err := s.repo.FindByID(ctx, cajaID)
	if err != nil {
		return nil, errors.New("caja no encontrada")
	}
	if !caja.EnProceso {
		return nil, errors.New("la caja ya está cerrada")
	}

	tipos, err := s.repo.ListTiposPago(ctx)
	if err != nil {
		return nil, err
	}
	conocidos := make(map[int]model.TipoPago, len(tipos))
	for _, t := range tipos {
		conocidos[t.ID] = t
	}

	declarados := make(map[int]decimal.Decimal, len(req.Entradas))
	algunoPositivo := false
	for _, e := range req.Entradas {
		t, ok := conocidos[e.TipoPagoID]
		if !ok {
			return nil, fmt.Errorf("tipo de pago desconocido: %d", e.TipoPagoID)
		}
		if e.Monto.IsNegative() {
			return nil, fmt.Errorf("el monto de %s no puede ser negativo", t.Nombre)
		}
		if e.Monto.IsPositive() {
			algunoPositivo = true
		}
		declarados[e.TipoPagoID] = e.Monto
	}
	if !algunoPositivo {
		return nil, errors.New("el cierre requiere al menos un monto mayor a cero")
	}

	pendientes, err := s.repo.SumIngresosPorTipo(ctx, caja.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	total := decimal.Zero
	flujos := make([]model.FlujoCaja, 0, len(tipos))
	for _, t := range tipos {
		declarado := declarados[t.ID] // zero when the type was not declared
		pendiente := pendientes[t.ID]
		total = total.Add(declarado)
		flujos = append(flujos, model.FlujoCaja{
			CajaID:         caja.ID,
			TipoPagoID:     t.ID,
			TipoPagoNombre: model.PadFixed(t.Nombre, model.TipoPagoNombreWidth),
			Ingreso:        declarado,
			Pendiente:      pendiente,
			Diferencia:     declarado.Sub(pendiente),
			Fecha:          now,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range flujos {
			if err := s.repo.CreateFlujoTx(tx, &flujos[i]); err != nil {
				return err
			}
		}
		caja.Cierre = &total
		caja.EnProceso = false
		caja.FechaFin = &now
		return s.repo.UpdateTx(tx, caja)
	})
	if txErr != nil {
		return nil, txErr
	}
	caja.Flujos = flujos

	// Async closing report — best effort, never blocks the close
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReporteCierre(ctx, worker.ReporteCierrePayload{CajaID: caja.ID.String()})
	}

	esperado := caja.Ingresos
	diferencia := total.Sub(esperado)
	clasificacion := "favorable"
	if diferencia.IsNegative() {
		clasificacion = "desfavorable"
	}
	return &dto.CierreResponse{
		Caja:          *cajaToResponse(caja),
		Total:         total,
		Esperado:      esperado,
		Diferencia:    diferencia,
		Clasificacion: clasificacion,
	}, nil
}

// ── EditarCierre ──────────────────────────────────────────────────────────────
// Batch edit of a closed session's reconciliation lines. The catalog is joined
// against existing lines (missing → zero); only changed lines are written.
// Everything — line writes, recomputed Ingresos, shifted Cierre — commits in
// one transaction, so a failure leaves no partial state.

func (s *cajaService) EditarCierre(ctx context.Context, cajaID uuid.UUID, req dto.EditarCierreRequest) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, cajaID)
	if err != nil {
		return nil, errors.New("caja no encontrada")
	}

	tipos, err := s.repo.ListTiposPago(ctx)
	if err != nil {
		return nil, err
	}
	conocidos := make(map[int]model.TipoPago, len(tipos))
	for _, t := range tipos {
		conocidos[t.ID] = t
	}

	editados := make(map[int]decimal.Decimal, len(req.Lineas))
	for _, l := range req.Lineas {
		t, ok := conocidos[l.TipoPagoID]
		if !ok {
			return nil, fmt.Errorf("tipo de pago desconocido: %d", l.TipoPagoID)
		}
		if l.Ingreso.IsNegative() {
			return nil, fmt.Errorf("el monto de %s no puede ser negativo", t.Nombre)
		}
		editados[l.TipoPagoID] = l.Ingreso
	}

	existentes := make(map[int]*model.FlujoCaja, len(caja.Flujos))
	for i := range caja.Flujos {
		existentes[caja.Flujos[i].TipoPagoID] = &caja.Flujos[i]
	}

	sumaAnterior := decimal.Zero
	sumaNueva := decimal.Zero
	now := time.Now()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, t := range tipos {
			linea := existentes[t.ID]
			anterior := decimal.Zero
			if linea != nil {
				anterior = linea.Ingreso
			}
			nuevo, editado := editados[t.ID]
			if !editado {
				nuevo = anterior
			}
			sumaAnterior = sumaAnterior.Add(anterior)
			sumaNueva = sumaNueva.Add(nuevo)

			if nuevo.Equal(anterior) {
				continue // unchanged lines are passed through as-is
			}
			if linea != nil {
				linea.Ingreso = nuevo
				linea.Diferencia = nuevo.Sub(linea.Pendiente)
				if err := s.repo.UpdateFlujoTx(tx, linea); err != nil {
					return err
				}
				continue
			}
			nueva := model.FlujoCaja{
				CajaID:         caja.ID,
				TipoPagoID:     t.ID,
				TipoPagoNombre: model.PadFixed(t.Nombre, model.TipoPagoNombreWidth),
				Ingreso:        nuevo,
				Pendiente:      decimal.Zero,
				Diferencia:     nuevo,
				Fecha:          now,
			}
			if err := s.repo.CreateFlujoTx(tx, &nueva); err != nil {
				return err
			}
			caja.Flujos = append(caja.Flujos, nueva)
		}

		caja.Ingresos = sumaNueva
		if caja.Cierre != nil {
			cierre := caja.Cierre.Add(sumaNueva.Sub(sumaAnterior))
			caja.Cierre = &cierre
		}
		return s.repo.UpdateTx(tx, caja)
	})
	if txErr != nil {
		return nil, txErr
	}
	return cajaToResponse(caja), nil
}

// ── ActualizarFlujo ───────────────────────────────────────────────────────────
// Single-line update kept for API compatibility with the batch edit.

func (s *cajaService) ActualizarFlujo(ctx context.Context, flujoID uuid.UUID, req dto.ActualizarFlujoRequest) (*dto.FlujoCajaResponse, error) {
	if req.Ingreso.IsNegative() {
		return nil, errors.New("el monto declarado no puede ser negativo")
	}
	flujo, err := s.repo.FindFlujoByID(ctx, flujoID)
	if err != nil {
		return nil, errors.New("flujo de caja no encontrado")
	}
	caja, err := s.repo.FindByID(ctx, flujo.CajaID)
	if err != nil {
		return nil, errors.New("caja no encontrada")
	}

	delta := req.Ingreso.Sub(flujo.Ingreso)
	flujo.Ingreso = req.Ingreso
	flujo.Diferencia = flujo.Ingreso.Sub(flujo.Pendiente)
	if req.Egreso != nil {
		flujo.Egreso = req.Egreso
	}
	if req.Motivo != nil {
		flujo.Motivo = req.Motivo
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateFlujoTx(tx, flujo); err != nil {
			return err
		}
		caja.Ingresos = caja.Ingresos.Add(delta)
		if caja.Cierre != nil {
			cierre := caja.Cierre.Add(delta)
			caja.Cierre = &cierre
		}
		return s.repo.UpdateTx(tx, caja)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := flujoToResponse(flujo)
	return &resp, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *cajaService) Listar(ctx context.Context, page dto.PageRequest) ([]dto.CajaResponse, error) {
	cajas, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajaResponse, len(cajas))
	for i := range cajas {
		resp[i] = *cajaToResponse(&cajas[i])
	}
	return resp, nil
}

func (s *cajaService) Contar(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *cajaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("caja no encontrada")
	}
	return cajaToResponse(caja), nil
}

func (s *cajaService) TiposPago(ctx context.Context) ([]dto.TipoPagoResponse, error) {
	tipos, err := s.repo.ListTiposPago(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TipoPagoResponse, len(tipos))
	for i, t := range tipos {
		resp[i] = dto.TipoPagoResponse{ID: t.ID, Nombre: t.Nombre}
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *cajaService) tipoPago(ctx context.Context, id int) (model.TipoPago, error) {
	tipos, err := s.repo.ListTiposPago(ctx)
	if err != nil {
		return model.TipoPago{}, err
	}
	for _, t := range tipos {
		if t.ID == id {
			return t, nil
		}
	}
	return model.TipoPago{}, fmt.Errorf("tipo de pago desconocido: %d", id)
}

func cajaToResponse(c *model.Caja) *dto.CajaResponse {
	resp := &dto.CajaResponse{
		ID:                 c.ID.String(),
		PuntoDeVenta:       c.PuntoDeVenta,
		PuntoDeVentaNombre: c.PuntoDeVentaNombre,
		UsuarioID:          c.UsuarioID.String(),
		UsuarioLogin:       c.UsuarioLogin,
		Inicio:             c.Inicio,
		Cierre:             c.Cierre,
		EnProceso:          c.EnProceso,
		Ingresos:           c.Ingresos,
		Gastos:             c.Gastos,
		FechaInicio:        c.FechaInicio.Format(time.RFC3339),
	}
	if c.FechaFin != nil {
		t := c.FechaFin.Format(time.RFC3339)
		resp.FechaFin = &t
	}
	for i := range c.Flujos {
		resp.Flujos = append(resp.Flujos, flujoToResponse(&c.Flujos[i]))
	}
	return resp
}

func flujoToResponse(f *model.FlujoCaja) dto.FlujoCajaResponse {
	return dto.FlujoCajaResponse{
		ID:         f.ID.String(),
		CajaID:     f.CajaID.String(),
		TipoPagoID: f.TipoPagoID,
		TipoPago:   model.TrimFixed(f.TipoPagoNombre),
		Ingreso:    f.Ingreso,
		Pendiente:  f.Pendiente,
		Egreso:     f.Egreso,
		Motivo:     f.Motivo,
		Diferencia: f.Diferencia,
		Fecha:      f.Fecha.Format(time.RFC3339),
	}
}
