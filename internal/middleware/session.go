package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionKey is the gin context key holding the session id.
const SessionKey = "session_id"

const sessionTTL = 7 * 24 * time.Hour

// Session identifies the browser by a signed cookie carrying a session id.
// A missing, expired or tampered cookie starts a new session.
func Session(secret []byte, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, exp := "", time.Time{}
		if raw, err := c.Cookie(cookieName); err == nil {
			sid, exp = parseSessionToken(raw, secret)
		}

		// 剩余不到一半有效期时续期
		if sid == "" || time.Until(exp) < sessionTTL/2 {
			if sid == "" {
				sid = uuid.NewString()
			}
			if token, err := SignSessionToken(sid, secret, sessionTTL); err == nil {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(cookieName, token, int(sessionTTL.Seconds()), "/", "", false, true)
			}
		}

		c.Set(SessionKey, sid)
		c.Next()
	}
}

func SignSessionToken(sid string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}).SignedString(secret)
}

func parseSessionToken(raw string, secret []byte) (string, time.Time) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return "", time.Time{}
	}
	return claims.ID, claims.ExpiresAt.Time
}
