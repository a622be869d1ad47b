// README: JWT bearer auth; resolves the authenticated actor for downstream handlers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"hail/internal/types"
)

const actorKey = "hail.actor"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates the Bearer token and stores the actor in the request
// context. Identity and role assignment happen upstream; this middleware only
// trusts the signed claims.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		var cl claims
		token, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		role := types.Role(cl.Role)
		if cl.Subject == "" || (role != types.RolePassenger && role != types.RoleDriver) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		c.Set(actorKey, types.Actor{ID: types.ID(cl.Subject), Role: role})
		c.Next()
	}
}

// CurrentActor returns the actor resolved by Auth.
func CurrentActor(c *gin.Context) (types.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return types.Actor{}, false
	}
	actor, ok := v.(types.Actor)
	return actor, ok
}
