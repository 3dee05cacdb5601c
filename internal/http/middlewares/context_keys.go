package middlewares

// gin.Context keys shared by the middlewares and handlers.
const (
	CtxRequestID = "request_id"

	ctxUserIDKey   = "auth.userID"
	ctxEmailKey    = "auth.email"
	ctxIsAdminKey  = "auth.isAdmin"
	ctxTokenIDKey  = "auth.jti"
	ctxTokenExpKey = "auth.exp"
)
