package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var timeNow = time.Now

// Context keys set by the session middleware
const (
	SessionTokenKey = "session_token"
	OperatorIDKey   = "operator_id"
	DraftOwnerKey   = "draft_owner"
	RequestIDKey    = "request_id"
)

// RequestID tags every request with an id, reusing X-Request-ID when sent
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// SessionAuth requires a bearer session token. The token is forwarded to the
// storefront backend as is; when jwtSecret is set it is verified here first
// (HS256), otherwise only its subject is read. Drafts are owned by the
// verified subject, or by a hash of the token when nothing was verified.
func SessionAuth(jwtSecret string, logger *logrus.Logger) gin.HandlerFunc {
	log := logger.WithField("component", "session_auth")

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "MISSING_TOKEN", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "INVALID_TOKEN_FORMAT", "Authorization header must be in format: Bearer <token>")
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		operatorID, verified, err := operatorFromToken(tokenString, jwtSecret)
		if err != nil {
			log.WithError(err).Debug("Session token rejected")
			abortUnauthorized(c, "SESSION_EXPIRED", "Your session has expired. Please sign in again.")
			return
		}

		owner := operatorID
		if !verified {
			owner = opaqueOperatorID(tokenString)
		}

		c.Set(SessionTokenKey, tokenString)
		c.Set(OperatorIDKey, operatorID)
		c.Set(DraftOwnerKey, owner)
		c.Next()
	}
}

// operatorFromToken returns the token subject. Without a secret the token is
// only decoded, and tokens that are not JWTs are accepted as opaque; the
// backend remains the authority on them. verified reports whether the
// signature was checked.
func operatorFromToken(tokenString, jwtSecret string) (string, bool, error) {
	if jwtSecret != "" {
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			return "", false, err
		}
		if !token.Valid {
			return "", false, fmt.Errorf("invalid token")
		}
		if claims.Subject == "" {
			return opaqueOperatorID(tokenString), true, nil
		}
		return claims.Subject, true, nil
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return opaqueOperatorID(tokenString), false, nil
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(timeNow()) {
		return "", false, fmt.Errorf("token expired")
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		if id, ok := claims["id"].(string); ok {
			sub = id
		} else if id, ok := claims["_id"].(string); ok {
			sub = id
		}
	}
	if sub == "" {
		return opaqueOperatorID(tokenString), false, nil
	}
	return sub, false, nil
}

// opaqueOperatorID derives a stable id for tokens without a readable subject
func opaqueOperatorID(tokenString string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(tokenString)).String()
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
