package worker

// cierre_worker.go
// Sends the totals of each committed closing to the configured recipients.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gamblerpro/internal/infra"

	"github.com/rs/zerolog/log"
)

// Enviador is the mail transport; *infra.Mailer satisfies it.
type Enviador interface {
	Send(to []string, subject, body string) error
}

// CierreNotificacionWorker e-mails closing summaries through a circuit breaker,
// so a dead relay fails jobs fast instead of stalling the pool.
type CierreNotificacionWorker struct {
	mailer        Enviador
	cb            *infra.CircuitBreaker
	destinatarios []string
}

func NewCierreNotificacionWorker(mailer Enviador, cb *infra.CircuitBreaker, destinatarios []string) *CierreNotificacionWorker {
	return &CierreNotificacionWorker{mailer: mailer, cb: cb, destinatarios: destinatarios}
}

func (w *CierreNotificacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p CierrePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("cierre_worker: payload invalido: %w", err)
	}
	if len(w.destinatarios) == 0 {
		log.Debug().Str("cierre_id", p.CierreID).Msg("cierre_worker: sin destinatarios, se omite")
		return nil
	}

	subject := fmt.Sprintf("Cierre de caja %s al %s", p.FechaInicio, p.FechaFin)
	body := cuerpoCierre(p)
	err := withRetry(ctx, maxIntentos, func(int) error {
		return w.cb.Execute(func() error { return w.mailer.Send(w.destinatarios, subject, body) })
	})
	if err != nil {
		return fmt.Errorf("cierre_worker: envio fallido: %w", err)
	}
	log.Info().Str("cierre_id", p.CierreID).Int("destinatarios", len(w.destinatarios)).Msg("cierre_worker: notificacion enviada")
	return nil
}

func cuerpoCierre(p CierrePayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cierre %s\n", p.CierreID)
	fmt.Fprintf(&b, "Sucursal: %s\n", p.SucursalID)
	fmt.Fprintf(&b, "Periodo: %s a %s\n\n", p.FechaInicio, p.FechaFin)
	fmt.Fprintf(&b, "Total recaudado: %s\n", p.TotalRecaudado.StringFixed(2))
	fmt.Fprintf(&b, "Total gastos:    %s\n", p.TotalGastos.StringFixed(2))
	fmt.Fprintf(&b, "Total cierre:    %s\n", p.TotalCierre.StringFixed(2))
	if p.Observaciones != nil && *p.Observaciones != "" {
		fmt.Fprintf(&b, "\nObservaciones: %s\n", *p.Observaciones)
	}
	return b.String()
}
