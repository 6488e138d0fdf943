package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"caffito/internal/dto"
	"caffito/internal/model"
	"caffito/internal/repository"

	"github.com/google/uuid"
)

// ConfirmacionDesactivar is the exact phrase the operator must type before a
// client deactivation is accepted. Anything else leaves the client active.
const ConfirmacionDesactivar = "desactivar"

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, page dto.PageRequest, filter dto.ClienteFilter) ([]dto.ClienteResponse, error)
	Contar(ctx context.Context, filter dto.ClienteFilter) (int64, error)
	Desactivar(ctx context.Context, id uuid.UUID, confirmacion string) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

// validarCliente is the single validating path for create and update.
// Lengths are checked on the trimmed values so padded input cannot cheat.
func validarCliente(req dto.CrearClienteRequest) error {
	if len([]rune(strings.TrimSpace(req.Nombre))) < 3 {
		return errors.New("el nombre debe tener al menos 3 caracteres")
	}
	if len([]rune(strings.TrimSpace(req.Apellido))) < 3 {
		return errors.New("el apellido debe tener al menos 3 caracteres")
	}
	if len(strings.TrimSpace(req.NumeroDocumento)) < 7 {
		return errors.New("el número de documento es obligatorio y debe tener al menos 7 caracteres")
	}
	return nil
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if err := validarCliente(req); err != nil {
		return nil, err
	}
	tipoDoc := req.TipoDocumento
	if tipoDoc == "" {
		tipoDoc = "DNI"
	}
	cliente := &model.Cliente{
		Nombre:          model.PadFixed(strings.TrimSpace(req.Nombre), model.ClienteNombreWidth),
		Apellido:        model.PadFixed(strings.TrimSpace(req.Apellido), model.ClienteNombreWidth),
		TipoDocumento:   tipoDoc,
		NumeroDocumento: strings.TrimSpace(req.NumeroDocumento),
		Mayorista:       req.Mayorista,
		Empleado:        req.Empleado,
		Telefono:        req.Telefono,
		Email:           req.Email,
		Direccion:       req.Direccion,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if err := validarCliente(req); err != nil {
		return nil, err
	}
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	cliente.Nombre = model.PadFixed(strings.TrimSpace(req.Nombre), model.ClienteNombreWidth)
	cliente.Apellido = model.PadFixed(strings.TrimSpace(req.Apellido), model.ClienteNombreWidth)
	if req.TipoDocumento != "" {
		cliente.TipoDocumento = req.TipoDocumento
	}
	cliente.NumeroDocumento = strings.TrimSpace(req.NumeroDocumento)
	cliente.Mayorista = req.Mayorista
	cliente.Empleado = req.Empleado
	cliente.Telefono = req.Telefono
	cliente.Email = req.Email
	cliente.Direccion = req.Direccion
	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Listar(ctx context.Context, page dto.PageRequest, filter dto.ClienteFilter) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, page, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = *clienteToResponse(&clientes[i])
	}
	return resp, nil
}

func (s *clienteService) Contar(ctx context.Context, filter dto.ClienteFilter) (int64, error) {
	return s.repo.Count(ctx, filter)
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID, confirmacion string) error {
	if confirmacion != ConfirmacionDesactivar {
		return errors.New(`confirmación incorrecta: escriba "desactivar"`)
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("cliente no encontrado")
	}
	return s.repo.Desactivar(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:              c.ID.String(),
		Nombre:          model.TrimFixed(c.Nombre),
		Apellido:        model.TrimFixed(c.Apellido),
		TipoDocumento:   c.TipoDocumento,
		NumeroDocumento: c.NumeroDocumento,
		Mayorista:       c.Mayorista,
		Empleado:        c.Empleado,
		Activo:          c.Activo,
		Telefono:        c.Telefono,
		Email:           c.Email,
		Direccion:       c.Direccion,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
	}
}
