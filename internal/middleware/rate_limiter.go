package middleware

import (
	"net/http"
	"sync"
	"time"

	"gamblerpro/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana counts requests of one IP inside a fixed window.
type ventana struct {
	mu    sync.Mutex
	count int
	vence time.Time
}

// limitador is a per-IP fixed-window counter.
type limitador struct {
	nombre  string
	limit   int
	window  time.Duration
	mu      sync.Mutex
	entries map[string]*ventana
}

func newLimitador(nombre string, limit int, window time.Duration) *limitador {
	l := &limitador{nombre: nombre, limit: limit, window: window, entries: make(map[string]*ventana)}
	registrarLimitador(l)
	return l
}

// permitir returns false once ip exceeded the limit, plus the window end.
func (l *limitador) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	v, ok := l.entries[ip]
	if !ok {
		v = &ventana{}
		l.entries[ip] = v
	}
	l.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	now := time.Now()
	if now.After(v.vence) {
		v.count = 0
		v.vence = now.Add(l.window)
	}
	v.count++
	return v.count <= l.limit, v.vence
}

func (l *limitador) purgar(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, v := range l.entries {
		v.mu.Lock()
		if now.After(v.vence) {
			delete(l.entries, ip)
			n++
		}
		v.mu.Unlock()
	}
	return n
}

// ── Login rate limiter ────────────────────────────────────────────────────────

var limitadorLogin = newLimitador("login", 20, time.Minute)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, _ := limitadorLogin.permitir(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// ── General API rate limiter ──────────────────────────────────────────────────

// RateLimiter returns a general-purpose per-IP limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimitador("api", limit, window)
	return func(c *gin.Context) {
		ok, vence := l.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", vence.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Expired entries are dropped periodically so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

var (
	limitadores   []*limitador
	limitadoresMu sync.Mutex
	purgaOnce     sync.Once
)

func registrarLimitador(l *limitador) {
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	purgaOnce.Do(func() { go purgeExpiredEntries() })
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		limitadoresMu.Lock()
		activos := append([]*limitador(nil), limitadores...)
		limitadoresMu.Unlock()

		for _, l := range activos {
			if n := l.purgar(now); n > 0 {
				log.Debug().Str("limitador", l.nombre).Int("purged", n).Msg("rate limiter entries purged")
			}
		}
	}
}
