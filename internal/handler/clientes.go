package handler

import (
	"net/http"

	"caffito/internal/apierror"
	"caffito/internal/dto"
	"caffito/internal/service"

	"github.com/gin-gonic/gin"
)

var clienteSortable = map[string]bool{
	"nombre":           true,
	"apellido":         true,
	"numero_documento": true,
	"created_at":       true,
}

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearClienteRequest true "Datos del cliente"
// @Success 201 {object} dto.ClienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	page := parsePage(c, "apellido asc", clienteSortable)
	filter := dto.ClienteFilter{
		Nombre:   containsFilter(c, "nombre"),
		Apellido: containsFilter(c, "apellido"),
	}
	resp, err := h.svc.Listar(c.Request.Context(), page, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar clientes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Contar(c *gin.Context) {
	filter := dto.ClienteFilter{
		Nombre:   containsFilter(c, "nombre"),
		Apellido: containsFilter(c, "apellido"),
	}
	total, err := h.svc.Contar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al contar clientes"))
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Total: total})
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary Desactiva un cliente previa confirmacion escrita
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de cliente"
// @Param body body dto.DesactivarClienteRequest true "Frase de confirmacion"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/clientes/{id} [delete]
func (h *ClientesHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.DesactivarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id, req.Confirmacion); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
