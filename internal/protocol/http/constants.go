package http

// Status codes surfaced by the server. No other codes are produced.
const (
	StatusOK                  = 200
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
)

// statusReasons maps status codes to their reason phrases.
var statusReasons = map[int]string{
	StatusOK:                  "OK",
	StatusNoContent:           "No Content",
	StatusBadRequest:          "Bad Request",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusTooManyRequests:     "Too Many Requests",
	StatusInternalServerError: "Internal Server Error",
}

// StatusReason returns the reason phrase for a status code.
// Unknown codes map to "Unknown" rather than an empty phrase so the status
// line stays well-formed.
func StatusReason(code int) string {
	if reason, ok := statusReasons[code]; ok {
		return reason
	}
	return "Unknown"
}

// Header names used by the server. The header set is fixed and small: the
// framing headers plus the permissive CORS set.
const (
	HeaderContentLength = "Content-Length"
	HeaderContentType   = "Content-Type"
	HeaderAllowOrigin   = "Access-Control-Allow-Origin"
	HeaderAllowMethods  = "Access-Control-Allow-Methods"
	HeaderAllowHeaders  = "Access-Control-Allow-Headers"
)

// CORS header values. Every response carries AllowOriginAny; the wider
// preflight pair is attached per response type.
const (
	AllowOriginAny      = "*"
	AllowMethodsDefault = "GET, POST, OPTIONS"
	AllowHeadersDefault = "Content-Type"
)

// Content types for generated (non file-backed) bodies.
const (
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
)

// MaxRequestBytes bounds the single read of the request head. Heads larger
// than this are truncated, which may surface as a malformed parse. This is an
// accepted limit, not a bug: it doubles as the resource-exhaustion guard.
const MaxRequestBytes = 4096
