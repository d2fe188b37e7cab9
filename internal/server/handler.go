package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/marmos91/staticd/internal/accesslog"
	"github.com/marmos91/staticd/internal/content"
	"github.com/marmos91/staticd/internal/logger"
	httpwire "github.com/marmos91/staticd/internal/protocol/http"
	"github.com/marmos91/staticd/internal/ratelimiter"
	"github.com/marmos91/staticd/internal/visitors"
	"github.com/marmos91/staticd/pkg/metrics"
)

// VisitorCountPath is the reserved status endpoint. It is routed before the
// method checks, so any method reaches the counter; this is documented
// behavior and is preserved.
const VisitorCountPath = "/visitor-count"

// notFoundDocument is the server-owned custom 404 page, resolved against the
// assets store.
const notFoundDocument = "404.html"

// rateLimitedBody is the fixed plain-text body of every 429 response.
const rateLimitedBody = "Rate limit exceeded"

// Handler resolves one parsed request into exactly one HTTP response.
//
// It owns the routing decision table; the shared state it consults (rate
// limiter, visitor counter) and the collaborators it delegates to (content
// stores, access log) are injected at construction.
type Handler struct {
	limiter   *ratelimiter.Limiter
	throttle  *ratelimiter.Throttle
	counter   visitors.Counter
	static    content.Store
	assets    content.Store
	index     string
	accessLog *accesslog.Logger
	metrics   metrics.HTTPMetrics
}

// HandlerOptions collects the collaborators a Handler is built from.
type HandlerOptions struct {
	// Limiter is the per-client sliding window limiter (required).
	Limiter *ratelimiter.Limiter

	// Throttle is the optional server-wide token bucket. Nil disables it.
	Throttle *ratelimiter.Throttle

	// Counter is the visitor counter backend (required).
	Counter visitors.Counter

	// Static retrieves documents under the public root (required).
	Static content.Store

	// Assets retrieves server-owned documents such as the custom 404 page.
	Assets content.Store

	// Index is the document served for "/" (default "index.html").
	Index string

	// AccessLog is the append-only request log. Nil disables access logging.
	AccessLog *accesslog.Logger

	// Metrics collects request observations. Nil means no-op.
	Metrics metrics.HTTPMetrics
}

// NewHandler creates a Handler from its collaborators.
func NewHandler(opts HandlerOptions) *Handler {
	h := &Handler{
		limiter:   opts.Limiter,
		throttle:  opts.Throttle,
		counter:   opts.Counter,
		static:    opts.Static,
		assets:    opts.Assets,
		index:     opts.Index,
		accessLog: opts.AccessLog,
		metrics:   opts.Metrics,
	}

	if h.index == "" {
		h.index = "index.html"
	}
	if h.accessLog == nil {
		h.accessLog = &accesslog.Logger{}
	}
	if h.metrics == nil {
		h.metrics = metrics.NewHTTPMetrics()
	}

	return h
}

// Exchange turns a raw request head into the response owed for it.
//
// Returns nil when no response is owed, i.e. the client disconnected before
// sending anything.
//
// The decision table runs in fixed priority order: malformed request,
// rate limit, reserved counter endpoint, preflight, method check, static
// resolution. Every produced response is final; nothing here propagates an
// error to the connection layer.
func (h *Handler) Exchange(ctx context.Context, clientIP string, raw []byte) *httpwire.Response {
	req, err := httpwire.ParseRequest(raw)
	if err != nil {
		if errors.Is(err, httpwire.ErrEmpty) {
			return nil
		}
		logger.Debug("Malformed request from %s: %v", clientIP, err)
		return h.respond("", httpwire.Error(httpwire.StatusBadRequest))
	}

	logger.Info("%s %s from %s", req.Method, req.Path, clientIP)

	if h.throttle != nil && !h.throttle.Allow() {
		logger.Warn("Global throttle rejected request from %s", clientIP)
		h.metrics.RecordRateLimited()
		return h.respond(req.Method, httpwire.Text(httpwire.StatusTooManyRequests, rateLimitedBody))
	}

	if !h.limiter.Allow(ctx, clientIP) {
		logger.Info("Rate limit exceeded for %s", clientIP)
		h.metrics.RecordRateLimited()
		return h.respond(req.Method, httpwire.Text(httpwire.StatusTooManyRequests, rateLimitedBody))
	}

	if req.Path == VisitorCountPath {
		return h.respond(req.Method, h.visitorCount(ctx))
	}

	if req.Method == "OPTIONS" {
		return h.respond(req.Method, httpwire.NoContent())
	}

	if req.Method != "GET" {
		return h.respond(req.Method, httpwire.Error(httpwire.StatusMethodNotAllowed))
	}

	return h.respond(req.Method, h.serveStatic(ctx, clientIP, req))
}

// respond records the response in metrics and hands it back.
func (h *Handler) respond(method string, resp *httpwire.Response) *httpwire.Response {
	if method == "" {
		method = "INVALID"
	}
	h.metrics.RecordRequest(method, resp.Status)
	return resp
}

// visitorCount increments the shared counter and answers with the
// post-increment value as decimal text. A counter fault is the one
// shared-state error surfaced to the client.
func (h *Handler) visitorCount(ctx context.Context) *httpwire.Response {
	count, err := h.counter.IncrementAndGet(ctx)
	if err != nil {
		logger.Error("Visitor counter unavailable: %v", err)
		return httpwire.Error(httpwire.StatusInternalServerError)
	}

	logger.Debug("Visitor count incremented to %d", count)
	return &httpwire.Response{
		Status:      httpwire.StatusOK,
		ContentType: httpwire.ContentTypeText,
		Body:        []byte(strconv.FormatUint(count, 10)),
		CORS:        httpwire.CORSFull,
	}
}

// serveStatic resolves the request path against the public root and serves
// the document bytes, or the not-found response.
func (h *Handler) serveStatic(ctx context.Context, clientIP string, req *httpwire.Request) *httpwire.Response {
	relPath := h.index
	if req.Path != "/" {
		relPath = strings.TrimPrefix(req.Path, "/")
	}

	// Traversal guard: any parent-directory component resolves to the same
	// 404 a genuine miss produces. The client cannot tell the difference.
	if hasTraversal(req.Path) || hasTraversal(relPath) {
		logger.Warn("Blocked path with parent-directory component: %s", req.Path)
		return h.notFound(ctx)
	}

	data, err := h.static.ReadFile(ctx, relPath)
	if err != nil {
		logger.Info("404 Not Found: %s", relPath)
		return h.notFound(ctx)
	}

	logger.Info("200 OK: %s", relPath)
	h.accessLog.Log(clientIP, fmt.Sprintf("%s %s 200", req.Method, req.Path))

	return httpwire.OK(content.TypeForPath(relPath), data)
}

// notFound builds the 404 response, preferring the custom not-found document
// and falling back to a fixed plain-text body when that document is itself
// unavailable.
func (h *Handler) notFound(ctx context.Context) *httpwire.Response {
	if h.assets != nil {
		if page, err := h.assets.ReadFile(ctx, notFoundDocument); err == nil {
			return httpwire.NotFound(httpwire.ContentTypeHTML, page)
		}
	}
	return httpwire.NotFound(httpwire.ContentTypeText, []byte("404 Not Found"))
}

// hasTraversal reports whether any slash-separated component of p is a
// parent-directory reference. Checked on the raw path, not a cleaned one:
// cleaning would fold the traversal away and defeat the guard.
func hasTraversal(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}
