// Package server provides the staticd TCP server: an accept loop with
// semaphore-bounded handler concurrency, a per-connection one-shot request
// cycle, and the routing handler that turns a raw request head into exactly
// one HTTP response.
//
// Handlers share state only through the rate limiter and the visitor
// counter; everything else is created per request and discarded when the
// connection closes.
package server
