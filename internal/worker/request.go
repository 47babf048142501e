package worker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request stores everything needed to send a form POST later,
// so it can wait in the queue without touching caller-owned data.
type Request struct {
	ID       string
	Endpoint string
	Form     url.Values
}

func NewRequest(id, endpoint string, form url.Values) *Request {
	return &Request{
		ID:       id,
		Endpoint: endpoint,
		Form:     cloneValues(form),
	}
}

func (r *Request) ToHTTPRequest(ctx context.Context) (*http.Request, error) {
	if _, err := url.ParseRequestURI(r.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", r.Endpoint, err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, r.Endpoint, strings.NewReader(r.Form.Encode()),
	)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return httpReq, nil
}

func (r *Request) String() string {
	return fmt.Sprintf("POST %s (%s)", r.Endpoint, r.ID)
}

func cloneValues(v url.Values) url.Values {
	res := make(url.Values, len(v))
	for k, vals := range v {
		res[k] = append([]string(nil), vals...)
	}
	return res
}
