package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gamblerpro/internal/infra"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailerFake struct {
	fallas int
	envios int
	asunto string
	cuerpo string
	para   []string
}

func (m *mailerFake) Send(to []string, subject, body string) error {
	if m.fallas > 0 {
		m.fallas--
		return errors.New("smtp no disponible")
	}
	m.envios++
	m.para, m.asunto, m.cuerpo = to, subject, body
	return nil
}

func payloadCierre(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(CierrePayload{
		CierreID:       "c-1",
		SucursalID:     "s-1",
		FechaInicio:    "2026-03-01",
		FechaFin:       "2026-03-03",
		TotalRecaudado: decimal.RequireFromString("1500"),
		TotalGastos:    decimal.RequireFromString("200.5"),
		TotalCierre:    decimal.RequireFromString("1299.5"),
	})
	require.NoError(t, err)
	return raw
}

func init() { backoffBase = time.Millisecond }

func TestCierreWorker_EnviaResumen(t *testing.T) {
	m := &mailerFake{}
	w := NewCierreNotificacionWorker(m, infra.NewCircuitBreaker(infra.DefaultCBConfig()), []string{"gerencia@casino.test"})

	require.NoError(t, w.Process(context.Background(), payloadCierre(t)))
	assert.Equal(t, 1, m.envios)
	assert.Equal(t, []string{"gerencia@casino.test"}, m.para)
	assert.Equal(t, "Cierre de caja 2026-03-01 al 2026-03-03", m.asunto)
	assert.Contains(t, m.cuerpo, "Total cierre:    1299.50")
}

func TestCierreWorker_ReintentaAntesDeFallar(t *testing.T) {
	m := &mailerFake{fallas: 2}
	w := NewCierreNotificacionWorker(m, infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 10}), []string{"a@b.test"})

	require.NoError(t, w.Process(context.Background(), payloadCierre(t)))
	assert.Equal(t, 1, m.envios)

	m.fallas = maxIntentos
	assert.Error(t, w.Process(context.Background(), payloadCierre(t)))
}

func TestCierreWorker_SinDestinatariosNoEnvia(t *testing.T) {
	m := &mailerFake{}
	w := NewCierreNotificacionWorker(m, infra.NewCircuitBreaker(infra.DefaultCBConfig()), nil)
	require.NoError(t, w.Process(context.Background(), payloadCierre(t)))
	assert.Zero(t, m.envios)
}

type handlerFunc func(context.Context, json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, p json.RawMessage) error { return f(ctx, p) }

func TestPool_DispatchPorTipo(t *testing.T) {
	var recibido CierrePayload
	p := NewPool(nil, map[string]Handler{
		JobNotificarCierre: handlerFunc(func(_ context.Context, raw json.RawMessage) error {
			return json.Unmarshal(raw, &recibido)
		}),
	})

	raw, err := encodeJob(JobNotificarCierre, CierrePayload{CierreID: "c-9"})
	require.NoError(t, err)
	job, err := p.dispatch(context.Background(), string(raw))
	require.NoError(t, err)
	assert.Equal(t, JobNotificarCierre, job.Type)
	assert.Equal(t, "c-9", recibido.CierreID)

	raw, err = encodeJob("otro", struct{}{})
	require.NoError(t, err)
	_, err = p.dispatch(context.Background(), string(raw))
	assert.ErrorIs(t, err, errTipoDesconocido)

	_, err = p.dispatch(context.Background(), "{no es json")
	assert.Error(t, err)
}
