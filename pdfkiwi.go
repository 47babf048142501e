package pdfkiwi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/evilmartians/pdfkiwi/config"
	"github.com/evilmartians/pdfkiwi/internal/worker"
)

// Client converts HTML to PDF through the pdf.kiwi API.
//
// Requests made by one Client are sent strictly one after another, in the
// order they were submitted. A Client is safe for concurrent use; separate
// Clients are independent of each other.
type Client struct {
	email, token string

	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     log.FieldLogger

	client *worker.Client
	queue  *worker.Queue[[]byte]
}

// New creates a Client authenticated with the given pdf.kiwi account email
// and API token. It returns [ErrIncompleteCredentials] if either is empty.
func New(email, token string, opts ...Option) (*Client, error) {
	if email == "" || token == "" {
		return nil, ErrIncompleteCredentials
	}

	c := &Client{
		email:    email,
		token:    token,
		endpoint: DefaultEndpoint,
		logger:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.WithFields(log.Fields{
		"endpoint":        c.endpoint,
		"request_timeout": c.timeout,
	}).Debug("Initializing client")

	c.client = worker.NewClient(c.httpClient, c.timeout, c.logger)
	c.queue = worker.NewQueue[[]byte](c.logger)

	return c, nil
}

// NewFromConfig creates a Client from a loaded configuration.
// Options given here take precedence over the configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithEndpoint(cfg.Api.Endpoint),
		WithTimeout(cfg.Api.RequestTimeout),
		WithLogger(logger),
	}

	return New(cfg.Api.Email, cfg.Api.Token, append(base, opts...)...)
}

// Job is a submitted conversion.
type Job struct {
	// ID identifies the job in logs.
	ID string

	future *worker.Future[[]byte]
}

// Done is closed once the conversion has finished.
func (j *Job) Done() <-chan struct{} {
	return j.future.Done()
}

// Wait returns the PDF bytes or a *ConversionError once the conversion has
// finished. If ctx is done first, Wait returns ctx.Err() and the job keeps
// its place in the queue.
func (j *Job) Wait(ctx context.Context) ([]byte, error) {
	return j.future.Wait(ctx)
}

// Submit validates the input and queues the conversion without waiting for it.
//
// html must be a non-empty string (or string kind) or a finite number.
// options, when not nil, must be a map with string keys; its top level is
// copied, so changing the map afterwards does not affect the job.
// Validation errors are returned immediately and nothing is queued.
//
// ctx is used for the HTTP request once the job's turn comes.
func (c *Client) Submit(ctx context.Context, html interface{}, options interface{}) (*Job, error) {
	src, err := htmlSource(html)
	if err != nil {
		return nil, err
	}

	opts, err := optionsSnapshot(options)
	if err != nil {
		return nil, err
	}

	req := worker.NewRequest(uuid.NewString(), c.endpoint, renderForm(c.email, c.token, src, opts))

	queuePending.Inc()
	future := c.queue.Add(func() ([]byte, error) {
		queuePending.Dec()
		return c.send(ctx, req)
	})

	c.logger.WithFields(log.Fields{
		"request_id": req.ID,
		"html_bytes": len(src),
		"options":    len(opts),
	}).Debug("conversion queued")

	return &Job{ID: req.ID, future: future}, nil
}

// Convert submits the conversion and waits for the PDF.
func (c *Client) Convert(ctx context.Context, html interface{}, options interface{}) ([]byte, error) {
	job, err := c.Submit(ctx, html, options)
	if err != nil {
		return nil, err
	}

	return job.Wait(ctx)
}

// ConvertHTML is Convert for callers holding a string and typed options.
func (c *Client) ConvertHTML(ctx context.Context, html string, options Options) ([]byte, error) {
	return c.Convert(ctx, html, options)
}

// Pending returns the number of conversions waiting for their turn.
func (c *Client) Pending() int {
	return c.queue.Len()
}

// Shutdown waits for all submitted conversions to finish
// or returns an error if context was cancelled.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.queue.Shutdown(ctx)
}

func (c *Client) send(ctx context.Context, r *worker.Request) ([]byte, error) {
	start := time.Now()

	resp, err := c.client.Do(ctx, r)
	if err != nil {
		trackRequest(start, "none", resultTransportError)
		c.logger.WithError(err).WithField("request_id", r.ID).Warn("render request failed")

		return nil, newTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		trackRequest(start, strconv.Itoa(resp.StatusCode), resultAPIError)

		apiErr := newAPIError(resp.StatusCode, resp.Body)
		logger := c.logger.WithFields(log.Fields{
			"request_id": r.ID,
			"status":     apiErr.Status,
		})
		if apiErr.HasCode {
			logger = logger.WithField("code", apiErr.Code)
		}
		logger.Warn(apiErr.Message)

		return nil, apiErr
	}

	trackRequest(start, strconv.Itoa(resp.StatusCode), resultOK)

	return resp.Body, nil
}
