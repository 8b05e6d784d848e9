package handler

import (
	"net/http"

	"gamblerpro/internal/apierror"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/middleware"
	"gamblerpro/internal/service"

	"github.com/gin-gonic/gin"
)

type RetencionesHandler struct{ svc service.RetencionService }

func NewRetencionesHandler(svc service.RetencionService) *RetencionesHandler {
	return &RetencionesHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra la retencion sobre un premio pagado
// @Tags retenciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarRetencionRequest true "Retencion"
// @Success 201 {object} dto.RetencionResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/retenciones [post]
func (h *RetencionesHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarRetencionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RetencionesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarRetencionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RetencionesHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Listar godoc
// @Summary Lista las retenciones de un dia con sus totales
// @Tags retenciones
// @Produce json
// @Security BearerAuth
// @Param fecha query string false "AAAA-MM-DD, hoy por defecto"
// @Param casino_id query string false "Casino (master_admin)"
// @Param sucursal_id query string false "Sucursal"
// @Success 200 {object} dto.RetencionListResponse
// @Router /v1/retenciones [get]
func (h *RetencionesHandler) Listar(c *gin.Context) {
	var filter dto.RetencionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
