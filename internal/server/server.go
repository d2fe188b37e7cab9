package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/marmos91/staticd/internal/logger"
	"github.com/marmos91/staticd/pkg/metrics"
)

// Server accepts inbound TCP connections and dispatches each one to an
// independent handler goroutine, while never allowing more than
// MaxConnections handlers to run at once.
//
// Admission control is a fixed-size semaphore: a slot is acquired before the
// handler goroutine is spawned and released when it completes. Connections
// arriving while all slots are taken queue at the OS accept backlog; no
// fairness beyond that is promised.
type Server struct {
	port           int
	maxConnections int
	handler        *Handler
	metrics        metrics.HTTPMetrics

	mu       sync.Mutex
	listener net.Listener

	// sem holds one token per admitted in-flight handler.
	// nil when concurrency is unlimited.
	sem      chan struct{}
	inFlight atomic.Int64
}

// New creates a Server listening on the given port once Serve is called.
//
// maxConnections bounds concurrently running handlers; 0 or a negative value
// means unlimited.
func New(port, maxConnections int, handler *Handler, m metrics.HTTPMetrics) *Server {
	if m == nil {
		m = metrics.NewHTTPMetrics()
	}

	s := &Server{
		port:           port,
		maxConnections: maxConnections,
		handler:        handler,
		metrics:        m,
	}

	if maxConnections > 0 {
		s.sem = make(chan struct{}, maxConnections)
	}

	return s
}

// Serve binds the listening socket and accepts connections until the context
// is cancelled. It returns an error only if binding fails; accept errors are
// logged and the loop continues.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	logger.Info("Server listening on %s", listener.Addr())

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		tcpConn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				logger.Error("Error accepting connection: %v", err)
				continue
			}
		}

		s.metrics.RecordConnectionAccepted()

		// Admission: block here until a handler slot frees up. Pending
		// connections wait in the OS accept queue meanwhile.
		if s.sem != nil {
			select {
			case s.sem <- struct{}{}:
			case <-ctx.Done():
				tcpConn.Close()
				return nil
			}
		}

		conn := s.newConn(tcpConn)
		go func() {
			defer func() {
				if s.sem != nil {
					<-s.sem
				}
				s.metrics.SetInFlight(int(s.inFlight.Add(-1)))
				s.metrics.RecordConnectionClosed()
			}()
			s.metrics.SetInFlight(int(s.inFlight.Add(1)))
			conn.serve(ctx)
		}()
	}
}

// Addr returns the bound listener address, or nil before Serve has bound it.
// Useful when listening on an ephemeral port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listening socket.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
