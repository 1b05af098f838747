package api

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/instrumentation"
	"paggie/trainer-app/internal/service"
	"paggie/trainer-app/internal/session"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
	ContextEmailKey  = "userEmail"
)

// AuthMiddleware accepts session tokens signed with jwtSecret. Recovery
// tokens are rejected.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := service.ParseToken(jwtSecret, parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		if claims.Purpose != service.PurposeSession {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// SessionMiddleware rejects tokens that do not belong to the open session,
// e.g. tokens kept after sign out. Must run AFTER AuthMiddleware.
func SessionMiddleware(ctrl *session.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "User ID not found in context")
			return
		}
		current := ctrl.Session()
		if current == nil || current.Recovery || current.UserID != userID {
			abortWithError(c, http.StatusUnauthorized, session.ErrNotAuthenticated.Error())
			return
		}
		c.Next()
	}
}

// RequestMetrics counts requests by method and status and observes their
// duration.
func RequestMetrics(instr *instrumentation.Instrumentation) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		instr.GaugeRequests.Inc()
		defer instr.GaugeRequests.Dec()

		c.Next()

		instr.HistRequestDuration.Observe(time.Since(begin).Seconds())
		instr.CounterRequests.With(prometheus.Labels{
			"method": c.Request.Method,
			"status": strconv.Itoa(c.Writer.Status()),
		}).Inc()
	}
}

// PanicRecovery logs a handler panic, counts it and answers 500.
func PanicRecovery(instr *instrumentation.Instrumentation) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				if instr != nil {
					instr.CounterHandleRequestPanic.Inc()
				}
				abortWithError(c, http.StatusInternalServerError, msgUnexpected)
			}
		}()
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}
