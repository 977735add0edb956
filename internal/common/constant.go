package common

// TokenHeaderName carries the session token on authenticated requests.
const TokenHeaderName = "X-Token"

// RequestIDHeaderName carries the request id set by the HTTP middleware.
const RequestIDHeaderName = "X-Request-ID"

// TokenSize is the number of random bytes in a session token (128 bits).
const TokenSize = 16
