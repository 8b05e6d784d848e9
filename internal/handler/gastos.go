package handler

import (
	"net/http"

	"gamblerpro/internal/apierror"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/middleware"
	"gamblerpro/internal/service"

	"github.com/gin-gonic/gin"
)

type GastosHandler struct{ svc service.GastoService }

func NewGastosHandler(svc service.GastoService) *GastosHandler { return &GastosHandler{svc: svc} }

// Registrar godoc
// @Summary Registra un gasto de la sucursal
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarGastoRequest true "Gasto"
// @Success 201 {object} dto.GastoResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/gastos [post]
func (h *GastosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarGastoRequest
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

// Actualizar godoc
// @Summary Modifica un gasto abierto
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de gasto"
// @Param body body dto.ActualizarGastoRequest true "Gasto"
// @Success 200 {object} dto.GastoResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/gastos/{id} [put]
func (h *GastosHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarGastoRequest
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

func (h *GastosHandler) Eliminar(c *gin.Context) {
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
// @Summary Lista gastos de una sucursal (abiertos por defecto)
// @Tags gastos
// @Produce json
// @Security BearerAuth
// @Param sucursal_id query string false "Sucursal (admins)"
// @Param estado query string false "abierto | cerrado | todos"
// @Success 200 {object} dto.GastoListResponse
// @Router /v1/gastos [get]
func (h *GastosHandler) Listar(c *gin.Context) {
	var filter dto.GastoFilter
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
