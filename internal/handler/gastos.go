package handler

import (
	"net/http"

	"caffito/internal/apierror"
	"caffito/internal/dto"
	"caffito/internal/middleware"
	"caffito/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var gastoSortable = map[string]bool{
	"fecha":  true,
	"monto":  true,
	"nombre": true,
}

type GastosHandler struct{ svc service.GastoService }

func NewGastosHandler(svc service.GastoService) *GastosHandler {
	return &GastosHandler{svc: svc}
}

// Crear godoc
// @Summary Registra un gasto, imputado a la caja en proceso si la hay
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GuardarGastoRequest true "Datos del gasto"
// @Success 201 {object} dto.GastoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/gastos [post]
func (h *GastosHandler) Crear(c *gin.Context) {
	var req dto.GuardarGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GastosHandler) Listar(c *gin.Context) {
	page := parsePage(c, "fecha desc", gastoSortable)
	resp, err := h.svc.Listar(c.Request.Context(), page, containsFilter(c, "nombre"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar gastos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GastosHandler) Contar(c *gin.Context) {
	total, err := h.svc.Contar(c.Request.Context(), containsFilter(c, "nombre"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al contar gastos"))
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Total: total})
}

func (h *GastosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Gasto no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GastosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.GuardarGastoRequest
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

func (h *GastosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GastosHandler) Categorias(c *gin.Context) {
	resp, err := h.svc.Categorias(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar categorias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GastosHandler) Proveedores(c *gin.Context) {
	resp, err := h.svc.Proveedores(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar proveedores"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
