package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
	"github.com/orris-inc/proxypanel/internal/shared/utils"
)

const (
	AgentTokenHeader = "X-Agent-Token"
	AdminTokenHeader = "X-Admin-Token"
)

// TokenMiddleware authenticates callers holding a shared static token.
type TokenMiddleware struct {
	header string
	token  []byte
	logger logger.Interface
}

// NewTokenMiddleware checks token against the given header or a Bearer
// Authorization header.
func NewTokenMiddleware(header, token string, logger logger.Interface) *TokenMiddleware {
	return &TokenMiddleware{
		header: header,
		token:  []byte(token),
		logger: logger,
	}
}

// RequireToken rejects requests without the token. With no token configured
// every request is rejected.
func (m *TokenMiddleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(m.header)
		if token == "" {
			parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("missing authorization token"))
			return
		}

		if len(m.token) == 0 || subtle.ConstantTimeCompare([]byte(token), m.token) != 1 {
			m.logger.Warnw("token rejected",
				"header", m.header,
				"ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("invalid authorization token"))
			return
		}

		c.Next()
	}
}
