package customHttpClient

import (
	"net/http"

	"github.com/ank-dev/askmydoc/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// Pooled returns a client sharing the process-wide pooled transport.
// Per-call deadlines come from the request context, not the client.
func Pooled() *http.Client {
	return &http.Client{Transport: customTransport}
}
