package service

import (
	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"

	"github.com/google/uuid"
)

func idPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func lecturaToResponse(l *model.LecturaMaquina) dto.LecturaResponse {
	resp := dto.LecturaResponse{
		ID:                l.ID.String(),
		SucursalID:        l.SucursalID.String(),
		MaquinaID:         l.MaquinaID.String(),
		UsuarioID:         l.UsuarioID.String(),
		Fecha:             l.Fecha.Format(layoutFecha),
		Entrada:           l.Entrada,
		Salida:            l.Salida,
		Jackpots:          l.Jackpots,
		NetoInicial:       l.NetoInicial,
		NetoFinal:         l.NetoFinal,
		TotalCreditos:     l.TotalCreditos,
		TotalRecaudo:      l.TotalRecaudo,
		Confirmado:        l.Confirmado,
		FechaConfirmacion: l.FechaConfirmacion,
		CierreID:          idPtrString(l.CierreID),
	}
	if l.Maquina != nil {
		resp.MaquinaNDI = l.Maquina.NDI
	}
	return resp
}

func gastoToResponse(g *model.Gasto) dto.GastoResponse {
	resp := dto.GastoResponse{
		ID:          g.ID.String(),
		SucursalID:  g.SucursalID.String(),
		TipoGastoID: g.TipoGastoID.String(),
		ProveedorID: g.ProveedorID.String(),
		UsuarioID:   g.UsuarioID.String(),
		Fecha:       g.Fecha.Format(layoutFecha),
		Valor:       g.Valor,
		Descripcion: g.Descripcion,
		CierreID:    idPtrString(g.CierreID),
	}
	if g.TipoGasto != nil {
		resp.TipoGasto = g.TipoGasto.Nombre
	}
	if g.Proveedor != nil {
		resp.Proveedor = g.Proveedor.Nombre
	}
	return resp
}

func cierreToResponse(c *model.CierreCaja, cantLecturas, cantGastos int) dto.CierreResponse {
	return dto.CierreResponse{
		ID:             c.ID.String(),
		SucursalID:     c.SucursalID.String(),
		UsuarioID:      c.UsuarioID.String(),
		FechaInicio:    c.FechaInicio.Format(layoutFecha),
		FechaFin:       c.FechaFin.Format(layoutFecha),
		TotalRecaudado: c.TotalRecaudado,
		TotalGastos:    c.TotalGastos,
		TotalCierre:    c.TotalCierre,
		Observaciones:  c.Observaciones,
		CantLecturas:   cantLecturas,
		CantGastos:     cantGastos,
		CreatedAt:      c.CreatedAt,
	}
}

func maquinaToResponse(m *model.Maquina) dto.MaquinaResponse {
	return dto.MaquinaResponse{
		ID:              m.ID.String(),
		NDI:             m.NDI,
		SucursalID:      m.SucursalID.String(),
		Nombre:          m.Nombre,
		CodigoInterno:   m.CodigoInterno,
		Denominacion:    m.Denominacion,
		UltimoNetoFinal: m.UltimoNetoFinal,
		Activa:          m.Activa,
	}
}

func parseID(s, campo string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errValidacion("%s invalido", campo)
	}
	return id, nil
}

func parseIDOpcional(s *string, campo string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := parseID(*s, campo)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func retencionToResponse(r *model.Retencion) dto.RetencionResponse {
	return dto.RetencionResponse{
		ID:             r.ID.String(),
		SucursalID:     r.SucursalID.String(),
		UsuarioID:      r.UsuarioID.String(),
		Fecha:          r.Fecha.Format(layoutFecha),
		Cedula:         r.Cedula,
		Nombre:         r.Nombre,
		ValorPremio:    r.ValorPremio,
		ValorRetencion: r.ValorRetencion,
		Observacion:    r.Observacion,
	}
}
