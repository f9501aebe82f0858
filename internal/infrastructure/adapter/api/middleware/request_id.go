package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/requestid"
)

// maxRequestIDLength bounds client supplied ids
const maxRequestIDLength = 128

// RequestID middleware propagates the client's X-Request-ID or assigns a new one
// The id is echoed in the response and stored in the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" || len(id) > maxRequestIDLength {
			id = requestid.New()
		}

		c.Request = c.Request.WithContext(requestid.NewContext(c.Request.Context(), id))
		c.Header(requestid.Header, id)

		c.Next()
	}
}
