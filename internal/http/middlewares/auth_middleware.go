package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/fittrack/internal/actorctx"
	"github.com/geocoder89/fittrack/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep these small so tests can fake them easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthMiddleware struct {
	jwt     TokenVerifier
	revoked RevocationChecker
}

// revoked may be nil, in which case logout has no effect on token validity.
func NewAuthMiddleware(jwt TokenVerifier, revoked RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, revoked: revoked}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortError(c, http.StatusUnauthorized, "unauthorized", "Failed. No Token", nil)
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "invalid_token", "Failed", gin.H{"message": err.Error()})
			return
		}

		if m.revoked != nil && claims.ID != "" {
			cctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			revoked, err := m.revoked.IsRevoked(cctx, claims.ID)
			cancel()

			if err != nil {
				abortError(c, http.StatusInternalServerError, "internal_error", "Could not verify session", nil)
				return
			}
			if revoked {
				abortError(c, http.StatusUnauthorized, "token_revoked", "Failed", gin.H{"message": "token has been revoked"})
				return
			}
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxEmailKey, claims.Email)
		c.Set(ctxIsAdminKey, claims.IsAdmin)
		c.Set(ctxTokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ctxTokenExpKey, claims.ExpiresAt.Time)
		}

		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "

	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	raw := strings.TrimSpace(header[len(prefix):])

	return raw, raw != ""
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(ctxUserIDKey)
	return id, id != ""
}

func EmailFromContext(c *gin.Context) string {
	return c.GetString(ctxEmailKey)
}

func IsAdminFromContext(c *gin.Context) bool {
	return c.GetBool(ctxIsAdminKey)
}

// TokenFromContext returns the verified token's id and expiry.
func TokenFromContext(c *gin.Context) (jti string, expiresAt time.Time, ok bool) {
	jti = c.GetString(ctxTokenIDKey)
	expiresAt = c.GetTime(ctxTokenExpKey)

	return jti, expiresAt, jti != "" && !expiresAt.IsZero()
}
