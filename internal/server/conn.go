package server

import (
	"context"
	"net"

	"github.com/google/uuid"

	"github.com/marmos91/staticd/internal/logger"
	httpwire "github.com/marmos91/staticd/internal/protocol/http"
)

// conn handles a single accepted connection: one bounded read, one exchange,
// one response, close.
type conn struct {
	server *Server
	conn   net.Conn

	// id correlates the log lines of one connection.
	id string
}

func (s *Server) newConn(tcpConn net.Conn) *conn {
	return &conn{
		server: s,
		conn:   tcpConn,
		id:     uuid.NewString(),
	}
}

// serve runs the connection's request cycle. A panic inside the handler is
// recovered here so one failing request never takes down the accept loop or
// other handlers.
func (c *conn) serve(ctx context.Context) {
	defer c.conn.Close()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic handling connection %s: %v", c.id, r)
		}
	}()

	logger.Debug("New connection %s from %s", c.id, c.conn.RemoteAddr())

	// The whole head must fit in one bounded read. Anything beyond the
	// buffer is truncated and may parse as malformed; that is the accepted
	// resource-exhaustion guard, not a defect to buffer around.
	buf := make([]byte, httpwire.MaxRequestBytes)
	n, err := c.conn.Read(buf)
	if err != nil {
		// Includes EOF: the client disconnected before sending anything.
		// An aborted request gets no response at all.
		logger.Debug("Connection %s closed before a request arrived: %v", c.id, err)
		return
	}

	resp := c.server.handler.Exchange(ctx, c.clientIP(), buf[:n])
	if resp == nil {
		return
	}

	if _, err := c.conn.Write(resp.Encode()); err != nil {
		logger.Debug("Failed to write response on connection %s: %v", c.id, err)
	}
}

// clientIP derives the client identity: the string form of the remote
// peer's IP, without the port.
func (c *conn) clientIP() string {
	addr := c.conn.RemoteAddr()
	if addr == nil {
		return "unknown"
	}

	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
