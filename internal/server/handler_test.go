package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/staticd/internal/content"
	httpwire "github.com/marmos91/staticd/internal/protocol/http"
	"github.com/marmos91/staticd/internal/ratelimiter"
	"github.com/marmos91/staticd/internal/visitors"
)

type handlerFixture struct {
	handler *Handler
	rootDir string
}

// newFixture builds a Handler over a real filesystem layout:
// a public root with an index and a stylesheet, a secret outside the root,
// and (optionally) an assets directory with a custom 404 page.
func newFixture(t *testing.T, rateLimit int, withAssets bool) *handlerFixture {
	t.Helper()
	ctx := context.Background()
	base := t.TempDir()

	rootDir := filepath.Join(base, "public_html")
	static, err := content.NewFSStore(ctx, rootDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "index.html"), []byte("<html>index</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "style.css"), []byte("body{margin:0}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret.txt"), []byte("top secret"), 0644))

	var assets content.Store
	if withAssets {
		assetsDir := filepath.Join(base, "server_assets")
		store, err := content.NewFSStore(ctx, assetsDir)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "404.html"), []byte("<html>custom 404</html>"), 0644))
		assets = store
	}

	handler := NewHandler(HandlerOptions{
		Limiter: ratelimiter.New(ratelimiter.NewMemoryStore(time.Minute, rateLimit)),
		Counter: visitors.NewMemoryCounter(),
		Static:  static,
		Assets:  assets,
	})

	return &handlerFixture{handler: handler, rootDir: rootDir}
}

func (f *handlerFixture) exchange(raw string) *httpwire.Response {
	return f.handler.Exchange(context.Background(), "10.0.0.1", []byte(raw))
}

func TestExchangeServesIndexForRoot(t *testing.T) {
	f := newFixture(t, 100, false)

	resp := f.exchange("GET / HTTP/1.1\r\n\r\n")
	require.NotNil(t, resp)
	assert.Equal(t, httpwire.StatusOK, resp.Status)
	assert.Equal(t, "text/html", resp.ContentType)
	assert.Equal(t, "<html>index</html>", string(resp.Body))
}

func TestExchangeStaticFileRoundTrip(t *testing.T) {
	f := newFixture(t, 100, false)

	want, err := os.ReadFile(filepath.Join(f.rootDir, "style.css"))
	require.NoError(t, err)

	resp := f.exchange("GET /style.css HTTP/1.1\r\n\r\n")
	require.NotNil(t, resp)
	assert.Equal(t, httpwire.StatusOK, resp.Status)
	assert.Equal(t, "text/css", resp.ContentType)
	assert.Equal(t, want, resp.Body)

	// Content-Length on the wire equals the file's byte length exactly.
	encoded := string(resp.Encode())
	assert.Contains(t, encoded, fmt.Sprintf("Content-Length: %d\r\n", len(want)))
}

func TestExchangeMalformedRequestLine(t *testing.T) {
	f := newFixture(t, 100, false)

	resp := f.exchange("GET\r\n\r\n")
	require.NotNil(t, resp)
	assert.Equal(t, httpwire.StatusBadRequest, resp.Status)
}

func TestExchangeEmptyReadProducesNoResponse(t *testing.T) {
	f := newFixture(t, 100, false)
	assert.Nil(t, f.exchange(""))
}

func TestExchangeRateLimitPreemptsRouting(t *testing.T) {
	f := newFixture(t, 1, false)

	first := f.exchange("GET / HTTP/1.1\r\n\r\n")
	require.Equal(t, httpwire.StatusOK, first.Status)

	// The limit applies independent of path and method.
	for _, raw := range []string{
		"GET /style.css HTTP/1.1\r\n\r\n",
		"POST /visitor-count HTTP/1.1\r\n\r\n",
		"OPTIONS / HTTP/1.1\r\n\r\n",
	} {
		resp := f.exchange(raw)
		require.NotNil(t, resp)
		assert.Equal(t, httpwire.StatusTooManyRequests, resp.Status, "raw %q", raw)
		assert.Equal(t, "Rate limit exceeded", string(resp.Body))
	}
}

func TestExchangeRateLimitPerIdentity(t *testing.T) {
	f := newFixture(t, 1, false)

	resp := f.handler.Exchange(context.Background(), "10.0.0.1", []byte("GET / HTTP/1.1\r\n\r\n"))
	require.Equal(t, httpwire.StatusOK, resp.Status)
	resp = f.handler.Exchange(context.Background(), "10.0.0.1", []byte("GET / HTTP/1.1\r\n\r\n"))
	require.Equal(t, httpwire.StatusTooManyRequests, resp.Status)

	// Another identity is unaffected.
	resp = f.handler.Exchange(context.Background(), "10.0.0.2", []byte("GET / HTTP/1.1\r\n\r\n"))
	assert.Equal(t, httpwire.StatusOK, resp.Status)
}

func TestExchangeVisitorCount(t *testing.T) {
	f := newFixture(t, 100, false)

	resp := f.exchange("GET /visitor-count HTTP/1.1\r\n\r\n")
	require.NotNil(t, resp)
	assert.Equal(t, httpwire.StatusOK, resp.Status)
	assert.Equal(t, "text/plain", resp.ContentType)
	assert.Equal(t, "1", string(resp.Body))

	resp = f.exchange("GET /visitor-count HTTP/1.1\r\n\r\n")
	assert.Equal(t, "2", string(resp.Body))
}

func TestExchangeVisitorCountIsMethodAgnostic(t *testing.T) {
	// The reserved endpoint is routed before the method checks: POST still
	// increments and answers 200 where any other POST path answers 405.
	f := newFixture(t, 100, false)

	resp := f.exchange("POST /visitor-count HTTP/1.1\r\n\r\n")
	require.NotNil(t, resp)
	assert.Equal(t, httpwire.StatusOK, resp.Status)
	assert.Equal(t, "1", string(resp.Body))
}

type failingCounter struct{}

func (failingCounter) IncrementAndGet(context.Context) (uint64, error) {
	return 0, errors.New("counter backend down")
}

func TestExchangeVisitorCountBackendFault(t *testing.T) {
	f := newFixture(t, 100, false)
	f.handler.counter = failingCounter{}

	resp := f.exchange("GET /visitor-count HTTP/1.1\r\n\r\n")
	require.NotNil(t, resp)
	assert.Equal(t, httpwire.StatusInternalServerError, resp.Status)
}

func TestExchangeOptionsPreflight(t *testing.T) {
	f := newFixture(t, 100, false)

	for _, raw := range []string{
		"OPTIONS / HTTP/1.1\r\n\r\n",
		"OPTIONS /anything/at/all HTTP/1.1\r\n\r\n",
	} {
		resp := f.exchange(raw)
		require.NotNil(t, resp)
		assert.Equal(t, httpwire.StatusNoContent, resp.Status)
		assert.Empty(t, resp.Body)
	}
}

func TestExchangeMethodNotAllowed(t *testing.T) {
	f := newFixture(t, 100, false)

	for _, method := range []string{"POST", "PUT", "DELETE", "HEAD"} {
		resp := f.exchange(method + " /index.html HTTP/1.1\r\n\r\n")
		require.NotNil(t, resp)
		assert.Equal(t, httpwire.StatusMethodNotAllowed, resp.Status, "method %s", method)
	}
}

func TestExchangeTraversalIndistinguishableFrom404(t *testing.T) {
	f := newFixture(t, 100, false)

	// secret.txt really exists one level above the public root.
	traversal := f.exchange("GET /../secret.txt HTTP/1.1\r\n\r\n")
	require.NotNil(t, traversal)
	assert.Equal(t, httpwire.StatusNotFound, traversal.Status)
	assert.NotContains(t, string(traversal.Body), "top secret")

	// A genuine miss must be byte-identical to the traversal response.
	miss := f.exchange("GET /no-such-file.txt HTTP/1.1\r\n\r\n")
	require.NotNil(t, miss)
	assert.Equal(t, miss.Encode(), traversal.Encode())
}

func TestExchangeTraversalVariants(t *testing.T) {
	f := newFixture(t, 100, false)

	for _, target := range []string{
		"/../secret.txt",
		"/a/../../secret.txt",
		"/..",
		"/assets/../../secret.txt",
	} {
		resp := f.exchange("GET " + target + " HTTP/1.1\r\n\r\n")
		require.NotNil(t, resp)
		assert.Equal(t, httpwire.StatusNotFound, resp.Status, "target %s", target)
	}
}

func TestExchangeNotFoundCustomPage(t *testing.T) {
	f := newFixture(t, 100, true)

	resp := f.exchange("GET /missing.html HTTP/1.1\r\n\r\n")
	require.NotNil(t, resp)
	assert.Equal(t, httpwire.StatusNotFound, resp.Status)
	assert.Equal(t, "text/html", resp.ContentType)
	assert.Equal(t, "<html>custom 404</html>", string(resp.Body))
}

func TestExchangeNotFoundFallbackBody(t *testing.T) {
	f := newFixture(t, 100, false)

	resp := f.exchange("GET /missing.html HTTP/1.1\r\n\r\n")
	require.NotNil(t, resp)
	assert.Equal(t, httpwire.StatusNotFound, resp.Status)
	assert.Equal(t, "404 Not Found", string(resp.Body))
}

func TestExchangeGlobalThrottle(t *testing.T) {
	f := newFixture(t, 100, false)
	f.handler.throttle = ratelimiter.NewThrottle(1, 1)

	first := f.exchange("GET / HTTP/1.1\r\n\r\n")
	require.Equal(t, httpwire.StatusOK, first.Status)

	second := f.exchange("GET / HTTP/1.1\r\n\r\n")
	require.NotNil(t, second)
	assert.Equal(t, httpwire.StatusTooManyRequests, second.Status)
}
