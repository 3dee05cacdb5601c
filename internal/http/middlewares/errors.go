package middlewares

import "github.com/gin-gonic/gin"

// abortError writes the same envelope as handlers.RespondError. It lives here
// because handlers imports this package.
func abortError(c *gin.Context, status int, code, message string, extra gin.H) {
	body := gin.H{
		"error": message,
		"code":  code,
	}

	if id := c.GetString(CtxRequestID); id != "" {
		body["requestId"] = id
	}

	for k, v := range extra {
		body[k] = v
	}

	c.AbortWithStatusJSON(status, body)
}
