// Package http implements the minimal one-shot HTTP/1.1 wire exchange used by
// staticd: a bounded single-read request head, a parsed request line, and a
// byte-stable response encoding with a fixed header set.
//
// The package deliberately does not implement keep-alive, pipelining, chunked
// transfer encoding or header parsing. The server answers exactly one request
// per accepted connection and closes it.
package http
