package http

import (
	"bytes"
	"fmt"
)

// CORSLevel selects which CORS headers a response carries.
//
// Every response carries Access-Control-Allow-Origin. Success and not-found
// responses additionally carry the Allow-Methods/Allow-Headers pair, while
// the error taxonomy (400/405/429/500) carries only Allow-Origin. The
// asymmetry is documented behavior and is preserved deliberately.
type CORSLevel int

const (
	// CORSOrigin attaches only Access-Control-Allow-Origin.
	CORSOrigin CORSLevel = iota
	// CORSFull attaches the origin, methods and headers triple.
	CORSFull
)

// Response is a complete one-shot HTTP response: status line, a fixed small
// header set, and the body. Content-Length always equals len(Body).
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	CORS        CORSLevel
}

// Text builds a plain-text response carrying only the Allow-Origin header.
func Text(status int, body string) *Response {
	return &Response{
		Status:      status,
		ContentType: ContentTypeText,
		Body:        []byte(body),
		CORS:        CORSOrigin,
	}
}

// Error builds an HTML error page for the given status, mirroring the fixed
// error body shape. Carries only the Allow-Origin header.
func Error(status int) *Response {
	body := fmt.Sprintf("<html><body><h1>%d %s</h1></body></html>", status, StatusReason(status))
	return &Response{
		Status:      status,
		ContentType: ContentTypeHTML,
		Body:        []byte(body),
		CORS:        CORSOrigin,
	}
}

// OK builds a 200 response with the full CORS header set.
func OK(contentType string, body []byte) *Response {
	return &Response{
		Status:      StatusOK,
		ContentType: contentType,
		Body:        body,
		CORS:        CORSFull,
	}
}

// NotFound builds a 404 response with the full CORS header set. The body is
// either the custom not-found document or the fixed fallback text; either
// way the status is indistinguishable to the client.
func NotFound(contentType string, body []byte) *Response {
	return &Response{
		Status:      StatusNotFound,
		ContentType: contentType,
		Body:        body,
		CORS:        CORSFull,
	}
}

// NoContent builds the 204 preflight response: no body, no framing headers,
// full CORS header set.
func NoContent() *Response {
	return &Response{
		Status: StatusNoContent,
		CORS:   CORSFull,
	}
}

// Encode serializes the response as a single header block followed by the
// body. Header order is fixed so responses are byte-stable.
//
// A 204 carries neither Content-Length nor Content-Type since it has no body.
func (r *Response) Encode() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "HTTP/1.1 %d %s\r\n", r.Status, StatusReason(r.Status))

	if r.Status != StatusNoContent {
		fmt.Fprintf(&buf, "%s: %d\r\n", HeaderContentLength, len(r.Body))
		fmt.Fprintf(&buf, "%s: %s\r\n", HeaderContentType, r.ContentType)
	}

	fmt.Fprintf(&buf, "%s: %s\r\n", HeaderAllowOrigin, AllowOriginAny)
	if r.CORS == CORSFull {
		fmt.Fprintf(&buf, "%s: %s\r\n", HeaderAllowMethods, AllowMethodsDefault)
		fmt.Fprintf(&buf, "%s: %s\r\n", HeaderAllowHeaders, AllowHeadersDefault)
	}

	buf.WriteString("\r\n")
	buf.Write(r.Body)

	return buf.Bytes()
}
