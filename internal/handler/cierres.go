package handler

import (
	"net/http"
	"strconv"

	"gamblerpro/internal/dto"
	"gamblerpro/internal/middleware"
	"gamblerpro/internal/service"

	"github.com/gin-gonic/gin"
)

type CierresHandler struct{ svc service.CierreService }

func NewCierresHandler(svc service.CierreService) *CierresHandler {
	return &CierresHandler{svc: svc}
}

// Cerrar godoc
// @Summary Cierra la caja de la sucursal absorbiendo lecturas y gastos abiertos
// @Tags cierres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarSucursalRequest false "Sucursal y observaciones"
// @Success 201 {object} dto.CierreResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError "nothing_to_close"
// @Router /v1/cierres [post]
func (h *CierresHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarSucursalRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CerrarSucursal(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary Obtiene un cierre con sus lecturas y gastos
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de cierre"
// @Success 200 {object} dto.CierreDetalleResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cierres/{id} [get]
func (h *CierresHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns closings visible to the caller, newest first.
func (h *CierresHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetActor(c), c.Query("sucursal_id"), page, limit)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
