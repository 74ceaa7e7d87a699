package apperror

// messages maps error codes to their default human-readable message.
var messages = map[Code]string{
	CodeInvalidInput:       "invalid input",
	CodeInvalidState:       "invalid state",
	CodeNotFound:           "resource not found",
	CodeConfigurationError: "invalid configuration",
	CodeInternalError:      "internal error",
	CodeUnknownError:       "unknown error",

	CodeExchangeConnectionFailed: "failed to connect to exchange",
	CodeExchangeAPIError:         "exchange API request failed",
	CodeExchangeRateLimited:      "exchange rate limit exceeded",
	CodeStreamConnectionError:    "depth stream connection error",
	CodeStreamClosed:             "depth stream closed",
	CodeDepthParseError:          "failed to parse depth payload",

	CodeInsufficientDepth:    "order book depth cannot absorb the requested conversion",
	CodeOrderPlacementFailed: "market order placement failed",
	CodeCircuitOpen:          "order placement circuit breaker is open",
}
