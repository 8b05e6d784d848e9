package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that fail after their retries land in dlq:<queue> for manual replay.
const DLQPrefix = "dlq:"

type EntradaDLQ struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	FallidoA time.Time       `json:"fallido_a"`
}

func moverADLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, motivo error) {
	data, err := json.Marshal(EntradaDLQ{
		Queue:    queue,
		Type:     job.Type,
		Payload:  job.Payload,
		Motivo:   motivo.Error(),
		FallidoA: time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push")
		return
	}
	log.Warn().Str("queue", queue).Str("type", job.Type).Str("motivo", motivo.Error()).Msg("dlq: job movido")
}

// LongitudDLQ reports how many failed jobs of queue await inspection.
func LongitudDLQ(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
