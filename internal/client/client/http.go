package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/lexqa/internal/client/metrics"
	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

// HTTPClient implements Client over the service's REST API.
type HTTPClient struct {
	baseURL     string
	http        *http.Client
	log         logging.Logger
	listRetries int
	newBackOff  func() backoff.BackOff
	debug       bool
}

// New returns an HTTPClient for baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{},
		log:         logging.Discard(),
		listRetries: 2,
		newBackOff:  defaultBackOff,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.debug {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc := *c.http
		hc.Transport = &debugTransport{base: base, log: c.log}
		c.http = &hc
	}
	return c, nil
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

// Ping checks the service health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) (err error) {
	defer func(started time.Time) { metrics.ObserveRequest(metrics.OpPing, started, err) }(time.Now())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health check: %s", statusMessage(resp))
	}
	return nil
}

// ListDocuments fetches the full collection of userID. Network failures,
// 5xx, 408 and 429 are retried; other statuses fail at once.
func (c *HTTPClient) ListDocuments(ctx context.Context, userID string) (docs models.Collection, err error) {
	defer func(started time.Time) { metrics.ObserveRequest(metrics.OpList, started, err) }(time.Now())

	endpoint := fmt.Sprintf("%s/api/documents/%s", c.baseURL, url.PathEscape(userID))
	attempt := 0

	op := func() error {
		attempt++
		docs, err = c.listOnce(ctx, endpoint)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable(err) {
			return backoff.Permanent(err)
		}
		c.log.Warn(ctx, "document listing failed", "attempt", attempt, "err", err)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.listRetries)), ctx)
	if rerr := backoff.Retry(op, b); rerr != nil {
		var apiErr *APIError
		if errors.As(rerr, &apiErr) {
			return nil, apiErr
		}
		return nil, transportError(common.ErrDirectoryFetchFailed, rerr)
	}
	return docs, nil
}

func (c *HTTPClient) listOnce(ctx context.Context, endpoint string) (models.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, transportError(common.ErrDirectoryFetchFailed, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(common.ErrDirectoryFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(common.ErrDirectoryFetchFailed, resp)
	}

	var lr struct {
		Documents models.Collection `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, &APIError{Kind: common.ErrDirectoryFetchFailed, StatusCode: resp.StatusCode,
			Message: "malformed document list: " + err.Error(), Err: err}
	}
	if lr.Documents == nil {
		lr.Documents = models.Collection{}
	}
	return lr.Documents, nil
}

// retryable follows the usual classification: transport failures, 408, 429
// and 5xx may succeed on a later attempt.
func retryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch code := apiErr.StatusCode; {
	case code == 0:
		return apiErr.Err != nil
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code >= 500:
		return true
	default:
		return false
	}
}

// Upload sends the file as multipart form data with fields "file" and
// "user_id" and returns the accepted document.
func (c *HTTPClient) Upload(ctx context.Context, userID, filename string, content io.Reader) (doc *models.Document, err error) {
	defer func(started time.Time) { metrics.ObserveRequest(metrics.OpUpload, started, err) }(time.Now())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, transportError(common.ErrUploadFailed, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, transportError(common.ErrUploadFailed, fmt.Errorf("read %s: %w", filename, err))
	}
	if err := mw.WriteField("user_id", userID); err != nil {
		return nil, transportError(common.ErrUploadFailed, err)
	}
	if err := mw.Close(); err != nil {
		return nil, transportError(common.ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, transportError(common.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(common.ErrUploadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(common.ErrUploadFailed, resp)
	}

	var accepted models.Document
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return nil, &APIError{Kind: common.ErrUploadFailed, StatusCode: resp.StatusCode,
			Message: "malformed upload response: " + err.Error(), Err: err}
	}
	return &accepted, nil
}

// DeleteDocument removes documentID from userID's collection.
func (c *HTTPClient) DeleteDocument(ctx context.Context, userID, documentID string) (err error) {
	defer func(started time.Time) { metrics.ObserveRequest(metrics.OpDelete, started, err) }(time.Now())

	endpoint := fmt.Sprintf("%s/api/documents/%s/%s", c.baseURL, url.PathEscape(userID), url.PathEscape(documentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return transportError(common.ErrDeleteFailed, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(common.ErrDeleteFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(common.ErrDeleteFailed, resp)
	}
	return nil
}

// Query asks a question against the identity's documents.
func (c *HTTPClient) Query(ctx context.Context, q models.Query) (answer *models.Answer, err error) {
	defer func(started time.Time) { metrics.ObserveRequest(metrics.OpQuery, started, err) }(time.Now())

	payload, err := json.Marshal(q)
	if err != nil {
		return nil, transportError(common.ErrQueryFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(payload))
	if err != nil {
		return nil, transportError(common.ErrQueryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(common.ErrQueryFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(common.ErrQueryFailed, resp)
	}

	var a models.Answer
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return nil, &APIError{Kind: common.ErrQueryFailed, StatusCode: resp.StatusCode,
			Message: "malformed answer: " + err.Error(), Err: err}
	}
	if a.RelevantChunks == nil {
		a.RelevantChunks = []models.Chunk{}
	}
	return &a, nil
}
