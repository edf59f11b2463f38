// Package requestid tags every HTTP request with a correlation id carried in
// the X-Request-ID header and the request context, and exposes a logger
// extractor so log lines emitted while serving a request include it.
package requestid
