package middleware

import (
	"net/http"
	"time"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const mensajeInterno = "Error interno del servidor"

// evento starts a log line carrying the request id and, on protected routes,
// the acting user.
func evento(c *gin.Context, e *zerolog.Event) *zerolog.Event {
	e = e.Str("request_id", c.GetString(RequestIDKey))
	if v, ok := c.Get(ActorKey); ok {
		if a, ok := v.(actor.Actor); ok {
			e = e.Str("usuario_id", a.UsuarioID.String()).Str("rol", string(a.Rol))
		}
	}
	return e
}

// ErrorHandler turns errors pushed with c.Error into a generic 500. Handlers
// answer domain errors themselves, so anything left here is unexpected and
// its detail stays in the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		evento(c, log.Error()).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err.Err).
			Msg("error no controlado")

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(mensajeInterno))
	}
}

// Recovery converts panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				evento(c, log.Error()).
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("panic recuperado")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(mensajeInterno))
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. 5xx log at error level, 4xx at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		e := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			e = log.Error()
		case status >= http.StatusBadRequest:
			e = log.Warn()
		}
		evento(c, e).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
