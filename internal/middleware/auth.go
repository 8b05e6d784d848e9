package middleware

import (
	"net/http"
	"strings"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
	ActorKey  = "actor"
)

// JWTClaims are the custom claims embedded in every token.
type JWTClaims struct {
	UserID     string  `json:"user_id"`
	Username   string  `json:"username"`
	Rol        string  `json:"rol"`
	CasinoID   *string `json:"casino_id"`
	SucursalID *string `json:"sucursal_id"`
	Typ        string  `json:"typ"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the explicit caller context services expect.
func (c *JWTClaims) Actor() (actor.Actor, error) {
	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return actor.Actor{}, err
	}
	rol, err := actor.ParseRol(c.Rol)
	if err != nil {
		return actor.Actor{}, err
	}
	a := actor.Actor{UsuarioID: uid, Rol: rol}
	if a.CasinoID, err = parseOpcional(c.CasinoID); err != nil {
		return actor.Actor{}, err
	}
	if a.SucursalID, err = parseOpcional(c.SucursalID); err != nil {
		return actor.Actor{}, err
	}
	return a, nil
}

func parseOpcional(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// JWTAuth validates the Bearer access token on every protected route and
// stores both the claims and the resolved actor in the context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Typ != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		a, err := claims.Actor()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ActorKey, a)
		c.Next()
	}
}

// RequireRole rejects requests whose role is not in the allowed list.
func RequireRole(roles ...actor.Rol) gin.HandlerFunc {
	allowed := make(map[actor.Rol]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[GetActor(c).Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// GetActor returns the actor set by JWTAuth. It panics on unprotected routes.
func GetActor(c *gin.Context) actor.Actor {
	return c.MustGet(ActorKey).(actor.Actor)
}
