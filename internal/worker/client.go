package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Response is what came back from the remote API.
type Response struct {
	StatusCode int
	Body       []byte
}

// TransportError means no HTTP response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client performs the requests
type Client struct {
	client *http.Client
	logger log.FieldLogger
}

// NewClient builds a client that keeps at most one connection to the remote host.
// A nil httpClient gets a dedicated transport; timeout applies only then.
func NewClient(httpClient *http.Client, timeout time.Duration, logger log.FieldLogger) *Client {
	if logger == nil {
		logger = log.StandardLogger()
	}

	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()

		// One request in flight, one connection
		transport.MaxConnsPerHost = 1
		transport.MaxIdleConnsPerHost = 1

		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	}

	return &Client{
		client: httpClient,
		logger: logger,
	}
}

// Do sends the Request. Any non-nil error is a *TransportError;
// HTTP error statuses are returned as a Response.
func (c *Client) Do(ctx context.Context, r *Request) (*Response, error) {
	httpReq, err := r.ToHTTPRequest(ctx)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("creating request: %w", err)}
	}

	return c.do(r.ID, httpReq)
}

// Performs the HTTP requests.
func (c *Client) do(id string, r *http.Request) (*Response, error) {
	reqURL := r.URL.String()
	c.logger.WithFields(log.Fields{
		"request_id": id,
		"method":     r.Method,
		"url":        reqURL,
	}).Debug("rendering...")

	resp, err := c.client.Do(r)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.WithFields(log.Fields{
		"request_id": id,
		"method":     r.Method,
		"url":        reqURL,
		"status":     resp.StatusCode,
		"bytes":      len(body),
	}).Debug("...done")

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
