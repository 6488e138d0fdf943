package handler

import (
	"net/http"
	"time"

	"caffito/internal/apierror"
	"caffito/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ svc service.StatsService }

func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// ResumenIngresos godoc
// @Summary Totales de ingresos por periodo, mes y tipo de pago
// @Tags estadisticas
// @Produce json
// @Security BearerAuth
// @Param periodo query string false "dia | semana | mes | anio"
// @Param fechaInicio query string false "Fecha inicio (2006-01-02)"
// @Param fechaFin query string false "Fecha fin exclusiva (2006-01-02)"
// @Success 200 {object} dto.ResumenIngresosResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/ingresos/summary [get]
func (h *StatsHandler) ResumenIngresos(c *gin.Context) {
	desde, hasta, err := service.ResolverRango(
		c.Query("periodo"), c.Query("fechaInicio"), c.Query("fechaFin"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ResumenIngresos(c.Request.Context(), desde, hasta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumenGastos godoc
// @Summary Totales de gastos por periodo, mes y categoria
// @Tags estadisticas
// @Produce json
// @Security BearerAuth
// @Param periodo query string false "dia | semana | mes | anio"
// @Param fechaInicio query string false "Fecha inicio (2006-01-02)"
// @Param fechaFin query string false "Fecha fin exclusiva (2006-01-02)"
// @Success 200 {object} dto.ResumenGastosResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/gastos/summary [get]
func (h *StatsHandler) ResumenGastos(c *gin.Context) {
	desde, hasta, err := service.ResolverRango(
		c.Query("periodo"), c.Query("fechaInicio"), c.Query("fechaFin"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ResumenGastos(c.Request.Context(), desde, hasta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
