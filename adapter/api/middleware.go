package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	accountDomain "github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	accountServices "github.com/felixgeelhaar/gymstore/internal/accounts/application/services"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
	"github.com/gin-gonic/gin"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"

	principalKey = "principal"
)

// requestContext tags the request context with request and correlation ids
// and logs every completed request.
func requestContext(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := observability.WithRequestID(c.Request.Context(), c.GetHeader(headerRequestID))
		ctx = observability.WithCorrelationID(ctx, c.GetHeader(headerCorrelationID))
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, observability.RequestID(ctx))
		c.Header(headerCorrelationID, observability.CorrelationID(ctx))

		start := time.Now()
		c.Next()

		logger.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			observability.DurationKey, time.Since(start).Milliseconds(),
		)
	}
}

// authenticate resolves the bearer token to a principal.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortWithError(c, errUnauthenticated)
			return
		}

		principal, err := s.container.AccountLedger.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, accountDomain.ErrUnauthorized) ||
				errors.Is(err, accountDomain.ErrUserNotFound) ||
				errors.Is(err, accountDomain.ErrAccountNotFound) {
				abortWithError(c, errUnauthenticated)
				return
			}
			s.abortInternal(c, "authentication failed", err)
			return
		}

		ctx := observability.WithAccountID(c.Request.Context(), principal.Account.ID().String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(principalKey, principal)
		c.Next()
	}
}

// requireAdmin rejects callers without the admin role.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !principalFrom(c).IsAdmin() {
			abortWithError(c, errAdminOnly)
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) *accountServices.Principal {
	return c.MustGet(principalKey).(*accountServices.Principal)
}

func abortWithError(c *gin.Context, apiErr *APIError) {
	c.AbortWithStatusJSON(apiErr.Status, errorBody{Error: apiErr})
}

func (s *Server) abortInternal(c *gin.Context, msg string, err error) {
	s.logger.ErrorContext(c.Request.Context(), msg, observability.ErrorKey, err)
	abortWithError(c, &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal server error"})
}
