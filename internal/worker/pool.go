package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gamblerpro/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	QueueCierres = "jobs:cierre"

	JobNotificarCierre = "notificar_cierre"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// CierrePayload is what the closing notification carries; the worker never
// reads the database.
type CierrePayload struct {
	CierreID       string          `json:"cierre_id"`
	SucursalID     string          `json:"sucursal_id"`
	FechaInicio    string          `json:"fecha_inicio"`
	FechaFin       string          `json:"fecha_fin"`
	TotalRecaudado decimal.Decimal `json:"total_recaudado"`
	TotalGastos    decimal.Decimal `json:"total_gastos"`
	TotalCierre    decimal.Decimal `json:"total_cierre"`
	Observaciones  *string         `json:"observaciones,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// NotificarCierre enqueues the e-mail summary of a committed closing.
func (d *Dispatcher) NotificarCierre(ctx context.Context, c *model.CierreCaja) error {
	return d.enqueue(ctx, QueueCierres, JobNotificarCierre, CierrePayload{
		CierreID:       c.ID.String(),
		SucursalID:     c.SucursalID.String(),
		FechaInicio:    c.FechaInicio.Format("2006-01-02"),
		FechaFin:       c.FechaFin.Format("2006-01-02"),
		TotalRecaudado: c.TotalRecaudado,
		TotalGastos:    c.TotalGastos,
		TotalCierre:    c.TotalCierre,
		Observaciones:  c.Observaciones,
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", jobType, err)
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// Handler processes one job payload. A returned error moves the job to the DLQ.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

var errTipoDesconocido = errors.New("tipo de job desconocido")

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers, queues: []string{QueueCierres}}
}

// Start launches numWorkers goroutines. Each one blocks on BRPOP, so idle
// workers cost nothing; they exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			p.handle(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) handle(ctx context.Context, queue, raw string) {
	job, err := p.dispatch(ctx, raw)
	if err == nil {
		return
	}
	log.Error().Err(err).Str("queue", queue).Str("type", job.Type).Msg("job failed")
	moverADLQ(ctx, p.rdb, queue, job, err)
}

// dispatch decodes the envelope and runs the matching handler.
func (p *Pool) dispatch(ctx context.Context, raw string) (Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{Payload: json.RawMessage(raw)}, fmt.Errorf("unmarshal job: %w", err)
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		return job, fmt.Errorf("%w: %s", errTipoDesconocido, job.Type)
	}
	return job, h.Process(ctx, job.Payload)
}
