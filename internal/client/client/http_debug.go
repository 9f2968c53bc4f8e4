package client

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/lexqa/internal/logging"
)

// debugTransport logs method, URL, status and latency of each request.
// Bodies are not dumped: uploads can be several megabytes of PDF.
type debugTransport struct {
	base http.RoundTripper
	log  logging.Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()
	dt.log.Debug(req.Context(), "HTTP request", "method", req.Method, "url", req.URL.String())

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.log.Debug(req.Context(), "HTTP request failed", "method", req.Method, "url", req.URL.String(), "err", err)
		return nil, err
	}

	dt.log.Debug(req.Context(), "HTTP response",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(started))
	return resp, nil
}
