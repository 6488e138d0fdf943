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

var cajaSortable = map[string]bool{
	"fecha_inicio":   true,
	"fecha_fin":      true,
	"punto_de_venta": true,
	"ingresos":       true,
	"gastos":         true,
}

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre una nueva caja para el punto de venta
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.CajaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cajas [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, claims.Username, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actual returns the caller's open caja, or 404 when none is open.
// Every screen that needs session state asks here.
func (h *CajaHandler) Actual(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario invalido"))
		return
	}
	resp, err := h.svc.Actual(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("No hay una caja en proceso"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarIngreso godoc
// @Summary Registra un ingreso sobre la caja en proceso del usuario
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarIngresoRequest true "Ingreso"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/cajas/ingresos [post]
func (h *CajaHandler) RegistrarIngreso(c *gin.Context) {
	var req dto.RegistrarIngresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.RegistrarIngreso(c.Request.Context(), usuarioID, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Cerrar godoc
// @Summary Cierra la caja declarando los montos contados por tipo de pago
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de caja"
// @Param body body dto.CerrarCajaRequest true "Montos declarados"
// @Success 200 {object} dto.CierreResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cajas/{id}/cerrar [put]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EditarCierre godoc
// @Summary Corrige las lineas de un cierre ya registrado
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de caja"
// @Param body body dto.EditarCierreRequest true "Lineas corregidas"
// @Success 200 {object} dto.CajaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cajas/{id} [put]
func (h *CajaHandler) EditarCierre(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.EditarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditarCierre(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Listar(c *gin.Context) {
	page := parsePage(c, "fecha_inicio desc", cajaSortable)
	resp, err := h.svc.Listar(c.Request.Context(), page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cajas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Contar(c *gin.Context) {
	total, err := h.svc.Contar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al contar cajas"))
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Total: total})
}

func (h *CajaHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Caja no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TiposPago returns the fixed payment type catalog.
func (h *CajaHandler) TiposPago(c *gin.Context) {
	resp, err := h.svc.TiposPago(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar tipos de pago"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarFlujo godoc
// @Summary Corrige una linea de cierre individual
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de flujo"
// @Param body body dto.ActualizarFlujoRequest true "Monto corregido"
// @Success 200 {object} dto.FlujoCajaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/flujos-caja/{id} [put]
func (h *CajaHandler) ActualizarFlujo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarFlujoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarFlujo(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
