package handler

import (
	"net/http"

	"gamblerpro/internal/apierror"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/middleware"
	"gamblerpro/internal/service"

	"github.com/gin-gonic/gin"
)

type LecturasHandler struct{ svc service.LecturaService }

func NewLecturasHandler(svc service.LecturaService) *LecturasHandler {
	return &LecturasHandler{svc: svc}
}

// Crear godoc
// @Summary Registra una lectura de contadores de una maquina
// @Tags lecturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearLecturaRequest true "Contadores"
// @Success 201 {object} dto.LecturaResponse
// @Failure 403 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/lecturas [post]
func (h *LecturasHandler) Crear(c *gin.Context) {
	var req dto.CrearLecturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Editar godoc
// @Summary Corrige los contadores de una lectura y recalcula las posteriores
// @Tags lecturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de lectura"
// @Param body body dto.EditarLecturaRequest true "Contadores corregidos"
// @Success 200 {object} dto.EdicionLecturaResponse
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/lecturas/{id} [put]
func (h *LecturasHandler) Editar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.EditarLecturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Editar(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina la ultima lectura de una maquina
// @Tags lecturas
// @Security BearerAuth
// @Param id path string true "ID de lectura"
// @Success 204
// @Failure 403 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/lecturas/{id} [delete]
func (h *LecturasHandler) Eliminar(c *gin.Context) {
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

// Confirmar godoc
// @Summary Confirma todas las lecturas pendientes de la sucursal
// @Tags lecturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ConfirmarLecturasRequest false "Sucursal (admins)"
// @Success 200 {object} dto.ConfirmacionResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/lecturas/confirmar [post]
func (h *LecturasHandler) Confirmar(c *gin.Context) {
	var req dto.ConfirmarLecturasRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmarPendientes(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene una lectura
// @Tags lecturas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de lectura"
// @Success 200 {object} dto.LecturaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/lecturas/{id} [get]
func (h *LecturasHandler) Obtener(c *gin.Context) {
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

// Listar godoc
// @Summary Lista lecturas de una sucursal
// @Tags lecturas
// @Produce json
// @Security BearerAuth
// @Param sucursal_id query string false "Sucursal (admins)"
// @Param maquina_id query string false "Maquina"
// @Param desde query string false "Desde (AAAA-MM-DD)"
// @Param hasta query string false "Hasta (AAAA-MM-DD)"
// @Param estado query string false "pendiente | confirmada | cerrada | abierta"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamaño de pagina"
// @Success 200 {object} dto.LecturaListResponse
// @Router /v1/lecturas [get]
func (h *LecturasHandler) Listar(c *gin.Context) {
	var filter dto.LecturaFilter
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
