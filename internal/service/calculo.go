package service

import (
	"time"

	"gamblerpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contadores are the raw meter values typed in by the operator.
type Contadores struct {
	Entrada  decimal.Decimal
	Salida   decimal.Decimal
	Jackpots decimal.Decimal
}

// Derivados are the figures computed from a carry-in and the raw counters.
type Derivados struct {
	NetoInicial   decimal.Decimal
	NetoFinal     decimal.Decimal
	TotalCreditos decimal.Decimal
	TotalRecaudo  decimal.Decimal
}

// CalcularDerivados applies the reading formulas. decimal arithmetic is exact,
// so total_creditos == neto_final - neto_inicial holds bit for bit.
func CalcularDerivados(netoInicial decimal.Decimal, c Contadores, denominacion decimal.Decimal) Derivados {
	netoFinal := c.Entrada.Sub(c.Salida).Sub(c.Jackpots)
	creditos := netoFinal.Sub(netoInicial)
	return Derivados{
		NetoInicial:   netoInicial,
		NetoFinal:     netoFinal,
		TotalCreditos: creditos,
		TotalRecaudo:  creditos.Mul(denominacion),
	}
}

// LecturaCruda is a later reading as the cascade sees it: identity plus counters.
type LecturaCruda struct {
	ID        uuid.UUID
	MaquinaID uuid.UUID
	Contadores
}

type LecturaRecalculada struct {
	ID uuid.UUID
	Derivados
}

// DenominacionFn resolves the current denomination of a machine.
type DenominacionFn func(maquinaID uuid.UUID) decimal.Decimal

// RecomputarSufijo re-derives a chain suffix after an edit. posteriores must be
// in ascending date order; each row's carry-in becomes the previous row's fresh
// neto_final, starting from netoFinalPrevio. Raw counters are never changed.
func RecomputarSufijo(netoFinalPrevio decimal.Decimal, posteriores []LecturaCruda, denominacion DenominacionFn) []LecturaRecalculada {
	out := make([]LecturaRecalculada, 0, len(posteriores))
	previo := netoFinalPrevio
	for _, l := range posteriores {
		d := CalcularDerivados(previo, l.Contadores, denominacion(l.MaquinaID))
		out = append(out, LecturaRecalculada{ID: l.ID, Derivados: d})
		previo = d.NetoFinal
	}
	return out
}

// ResumenCierre is the aggregate a closing stores.
type ResumenCierre struct {
	FechaInicio    time.Time
	FechaFin       time.Time
	TotalRecaudado decimal.Decimal
	TotalGastos    decimal.Decimal
	TotalCierre    decimal.Decimal
}

// ResumirCierre sums the open rows and spans their business dates. ok is false
// when both sets are empty; a set that is empty simply does not widen the span.
func ResumirCierre(lecturas []model.LecturaMaquina, gastos []model.Gasto) (ResumenCierre, bool) {
	if len(lecturas) == 0 && len(gastos) == 0 {
		return ResumenCierre{}, false
	}

	var r ResumenCierre
	r.TotalRecaudado = decimal.Zero
	r.TotalGastos = decimal.Zero
	primera := true
	abarcar := func(f time.Time) {
		if primera {
			r.FechaInicio, r.FechaFin = f, f
			primera = false
			return
		}
		if f.Before(r.FechaInicio) {
			r.FechaInicio = f
		}
		if f.After(r.FechaFin) {
			r.FechaFin = f
		}
	}

	for _, l := range lecturas {
		r.TotalRecaudado = r.TotalRecaudado.Add(l.TotalRecaudo)
		abarcar(l.Fecha)
	}
	for _, g := range gastos {
		r.TotalGastos = r.TotalGastos.Add(g.Valor)
		abarcar(g.Fecha)
	}
	r.TotalCierre = r.TotalRecaudado.Sub(r.TotalGastos)
	return r, true
}

// validarContadores normalises missing salida/jackpots to zero and rejects
// missing or negative values.
func validarContadores(entrada, salida, jackpots *decimal.Decimal) (Contadores, error) {
	if entrada == nil {
		return Contadores{}, errValidacion("entrada es requerida")
	}
	c := Contadores{Entrada: *entrada, Salida: decimal.Zero, Jackpots: decimal.Zero}
	if salida != nil {
		c.Salida = *salida
	}
	if jackpots != nil {
		c.Jackpots = *jackpots
	}
	if c.Entrada.IsNegative() || c.Salida.IsNegative() || c.Jackpots.IsNegative() {
		return Contadores{}, errValidacion("los contadores no pueden ser negativos")
	}
	for _, v := range []struct {
		campo string
		valor decimal.Decimal
	}{{"entrada", c.Entrada}, {"salida", c.Salida}, {"jackpots", c.Jackpots}} {
		if err := validarCentavos(v.campo, v.valor); err != nil {
			return Contadores{}, err
		}
	}
	return c, nil
}

// validarCentavos rejects values with more than two decimals. Counters and
// money are stored as DECIMAL(18,2) and must not be rounded on write.
func validarCentavos(campo string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(2)) {
		return errValidacion("%s admite como maximo dos decimales", campo)
	}
	return nil
}
