package http

import (
	"errors"
	"strings"
)

// ErrMalformed reports a request line with fewer than two tokens.
var ErrMalformed = errors.New("malformed request line")

// ErrEmpty reports an empty request buffer, i.e. the client disconnected
// before sending anything. No response is owed for it.
var ErrEmpty = errors.New("empty request")

// Request is the parsed form of a one-shot HTTP request.
//
// Only the request line is interpreted. Headers are read off the wire as part
// of the head but never parsed; the server answers exactly one request per
// connection and needs nothing beyond method and path.
type Request struct {
	Method string
	Path   string
	Proto  string
}

// ParseRequest parses the request line out of a raw head buffer.
//
// The buffer is whatever a single bounded read produced. A well-formed request
// line has at least a method and a path separated by whitespace; the protocol
// token is optional and kept only for logging.
//
// Returns ErrEmpty for an empty buffer and ErrMalformed when the first line
// has fewer than two tokens.
func ParseRequest(buf []byte) (*Request, error) {
	if len(buf) == 0 {
		return nil, ErrEmpty
	}

	head := string(buf)
	line := head
	if idx := strings.IndexAny(head, "\r\n"); idx >= 0 {
		line = head[:idx]
	}

	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil, ErrMalformed
	}

	req := &Request{
		Method: parts[0],
		Path:   parts[1],
	}
	if len(parts) >= 3 {
		req.Proto = parts[2]
	}

	return req, nil
}
