package service

import (
	"context"
	"errors"
	"time"

	"caffito/internal/dto"
	"caffito/internal/model"
	"caffito/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GastoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.GuardarGastoRequest) (*dto.GastoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarGastoRequest) (*dto.GastoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.GastoResponse, error)
	Listar(ctx context.Context, page dto.PageRequest, nombre string) ([]dto.GastoResponse, error)
	Contar(ctx context.Context, nombre string) (int64, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Categorias(ctx context.Context) ([]dto.GastoCategoriaResponse, error)
	Proveedores(ctx context.Context) ([]dto.GastoProveedorResponse, error)
}

type gastoService struct {
	repo     repository.GastoRepository
	cajaRepo repository.CajaRepository
}

func NewGastoService(repo repository.GastoRepository, cajaRepo repository.CajaRepository) GastoService {
	return &gastoService{repo: repo, cajaRepo: cajaRepo}
}

func (s *gastoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.GuardarGastoRequest) (*dto.GastoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, errors.New("el monto debe ser mayor a cero")
	}

	now := time.Now()
	fecha := now
	if req.Fecha != "" {
		parsed, err := time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, errors.New("fecha inválida, formato esperado 2006-01-02")
		}
		fecha = parsed
	}
	hora := req.Hora
	if hora == "" {
		hora = now.Format("15:04:05")
	}

	categoriaID, err := parseOptionalUUID(req.CategoriaID)
	if err != nil {
		return nil, errors.New("categoria_id inválido")
	}
	proveedorID, err := parseOptionalUUID(req.ProveedorID)
	if err != nil {
		return nil, errors.New("proveedor_id inválido")
	}

	gasto := &model.Gasto{
		Nombre:      req.Nombre,
		Monto:       req.Monto,
		Fecha:       fecha,
		Hora:        hora,
		CategoriaID: categoriaID,
		ProveedorID: proveedorID,
		Notas:       req.Notas,
		Pagado:      req.Pagado,
	}

	// Attribute the expense to the caller's open caja, when there is one.
	caja, cajaErr := s.cajaRepo.FindEnProcesoPorUsuario(ctx, usuarioID)
	if cajaErr != nil {
		caja = nil
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if caja != nil {
			gasto.CajaID = &caja.ID
		}
		if err := s.repo.CreateTx(tx, gasto); err != nil {
			return err
		}
		if caja != nil {
			caja.Gastos = caja.Gastos.Add(gasto.Monto)
			return s.cajaRepo.UpdateTx(tx, caja)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return gastoToResponse(gasto), nil
}

func (s *gastoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarGastoRequest) (*dto.GastoResponse, error) {
	gasto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("gasto no encontrado")
	}
	if !req.Monto.IsPositive() {
		return nil, errors.New("el monto debe ser mayor a cero")
	}

	delta := req.Monto.Sub(gasto.Monto)
	gasto.Nombre = req.Nombre
	gasto.Monto = req.Monto
	if req.Fecha != "" {
		parsed, err := time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, errors.New("fecha inválida, formato esperado 2006-01-02")
		}
		gasto.Fecha = parsed
	}
	if req.Hora != "" {
		gasto.Hora = req.Hora
	}
	if categoriaID, err := parseOptionalUUID(req.CategoriaID); err == nil {
		gasto.CategoriaID = categoriaID
	}
	if proveedorID, err := parseOptionalUUID(req.ProveedorID); err == nil {
		gasto.ProveedorID = proveedorID
	}
	gasto.Notas = req.Notas
	gasto.Pagado = req.Pagado
	gasto.Categoria = nil
	gasto.Proveedor = nil

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, gasto); err != nil {
			return err
		}
		return s.ajustarCaja(ctx, tx, gasto, delta)
	})
	if txErr != nil {
		return nil, txErr
	}
	return gastoToResponse(gasto), nil
}

func (s *gastoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.GastoResponse, error) {
	gasto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("gasto no encontrado")
	}
	return gastoToResponse(gasto), nil
}

func (s *gastoService) Listar(ctx context.Context, page dto.PageRequest, nombre string) ([]dto.GastoResponse, error) {
	gastos, err := s.repo.List(ctx, page, nombre)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GastoResponse, len(gastos))
	for i := range gastos {
		resp[i] = *gastoToResponse(&gastos[i])
	}
	return resp, nil
}

func (s *gastoService) Contar(ctx context.Context, nombre string) (int64, error) {
	return s.repo.Count(ctx, nombre)
}

func (s *gastoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	gasto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("gasto no encontrado")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return err
		}
		return s.ajustarCaja(ctx, tx, gasto, gasto.Monto.Neg())
	})
}

func (s *gastoService) Categorias(ctx context.Context) ([]dto.GastoCategoriaResponse, error) {
	categorias, err := s.repo.ListCategorias(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GastoCategoriaResponse, len(categorias))
	for i, c := range categorias {
		resp[i] = dto.GastoCategoriaResponse{ID: c.ID.String(), Nombre: c.Nombre}
	}
	return resp, nil
}

func (s *gastoService) Proveedores(ctx context.Context) ([]dto.GastoProveedorResponse, error) {
	proveedores, err := s.repo.ListProveedores(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GastoProveedorResponse, len(proveedores))
	for i, p := range proveedores {
		resp[i] = dto.GastoProveedorResponse{ID: p.ID.String(), Nombre: p.Nombre, CUIT: p.CUIT, Telefono: p.Telefono}
	}
	return resp, nil
}

// ajustarCaja shifts the owning session's running expense total when the
// session is still open. Closed sessions keep their historical totals.
func (s *gastoService) ajustarCaja(ctx context.Context, tx *gorm.DB, gasto *model.Gasto, delta decimal.Decimal) error {
	if gasto.CajaID == nil || delta.IsZero() {
		return nil
	}
	caja, err := s.cajaRepo.FindByID(ctx, *gasto.CajaID)
	if err != nil || !caja.EnProceso {
		return nil
	}
	caja.Gastos = caja.Gastos.Add(delta)
	return s.cajaRepo.UpdateTx(tx, caja)
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func gastoToResponse(g *model.Gasto) *dto.GastoResponse {
	resp := &dto.GastoResponse{
		ID:     g.ID.String(),
		Nombre: g.Nombre,
		Monto:  g.Monto,
		Fecha:  g.Fecha.Format("2006-01-02"),
		Hora:   g.Hora,
		Notas:  g.Notas,
		Pagado: g.Pagado,
	}
	if g.CategoriaID != nil {
		id := g.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if g.ProveedorID != nil {
		id := g.ProveedorID.String()
		resp.ProveedorID = &id
	}
	if g.Categoria != nil {
		resp.Categoria = &g.Categoria.Nombre
	}
	if g.Proveedor != nil {
		resp.Proveedor = &g.Proveedor.Nombre
	}
	return resp
}
