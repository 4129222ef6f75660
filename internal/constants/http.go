package constants

// HTTP Header Names
const (
	HeaderAuthorization  = "Authorization"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
)

// Authorization scheme accepted by the auth middleware
const BearerScheme = "Bearer"

// Common HTTP Error Messages
const (
	MsgUnauthorized  = "Unauthorized"
	MsgForbidden     = "Access forbidden"
	MsgBadRequest    = "Invalid request format"
	MsgInternalError = "Internal server error"
)

// HTTP Success Messages
const MsgDeleted = "Resource deleted successfully"
