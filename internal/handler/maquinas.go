package handler

import (
	"net/http"

	"gamblerpro/internal/dto"
	"gamblerpro/internal/middleware"
	"gamblerpro/internal/service"

	"github.com/gin-gonic/gin"
)

type MaquinasHandler struct{ svc service.MaquinaService }

func NewMaquinasHandler(svc service.MaquinaService) *MaquinasHandler {
	return &MaquinasHandler{svc: svc}
}

// Crear godoc
// @Summary Registra una maquina en una sucursal
// @Tags maquinas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearMaquinaRequest true "Maquina"
// @Success 201 {object} dto.MaquinaResponse
// @Failure 409 {object} apierror.APIError "NDI duplicado"
// @Router /v1/maquinas [post]
func (h *MaquinasHandler) Crear(c *gin.Context) {
	var req dto.CrearMaquinaRequest
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

// Listar godoc
// @Summary Lista las maquinas de una sucursal
// @Tags maquinas
// @Produce json
// @Security BearerAuth
// @Param sucursal_id query string false "Sucursal (admins)"
// @Param activas query bool false "Solo activas"
// @Success 200 {array} dto.MaquinaResponse
// @Router /v1/maquinas [get]
func (h *MaquinasHandler) Listar(c *gin.Context) {
	soloActivas := c.Query("activas") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetActor(c), c.Query("sucursal_id"), soloActivas)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaquinasHandler) Obtener(c *gin.Context) {
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

func (h *MaquinasHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarMaquinaRequest
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

func (h *MaquinasHandler) Eliminar(c *gin.Context) {
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

// Transferir godoc
// @Summary Transfiere una maquina a otra sucursal
// @Tags maquinas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de maquina"
// @Param body body dto.TransferirMaquinaRequest true "Destino"
// @Success 200 {object} dto.MaquinaResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/maquinas/{id}/transferir [patch]
func (h *MaquinasHandler) Transferir(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.TransferirMaquinaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transferir(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
