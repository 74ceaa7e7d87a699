package apperror

// Code represents a unique error code for the application.
type Code string

// General error codes
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Exchange transport error codes
const (
	CodeExchangeConnectionFailed Code = "EXCHANGE_CONNECTION_FAILED"
	CodeExchangeAPIError         Code = "EXCHANGE_API_ERROR"
	CodeExchangeRateLimited      Code = "EXCHANGE_RATE_LIMITED"
	CodeStreamConnectionError    Code = "STREAM_CONNECTION_ERROR"
	CodeStreamClosed             Code = "STREAM_CLOSED"
	CodeDepthParseError          Code = "DEPTH_PARSE_ERROR"
)

// Arbitrage error codes
const (
	CodeInsufficientDepth    Code = "INSUFFICIENT_DEPTH"
	CodeOrderPlacementFailed Code = "ORDER_PLACEMENT_FAILED"
	CodeCircuitOpen          Code = "CIRCUIT_OPEN"
)
