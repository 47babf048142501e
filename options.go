package pdfkiwi

import (
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultEndpoint is the pdf.kiwi rendering endpoint.
const DefaultEndpoint = "https://pdf.kiwi/api/generator/render/"

// Option configures a [Client].
type Option func(*Client)

// WithEndpoint overrides the rendering endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient overrides the HTTP client. [WithTimeout] has no effect
// on a client supplied this way.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds every request sent to the API.
// Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(logger log.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Options are rendering options forwarded to the API as the nested
// "options" form field.
type Options map[string]interface{}

// optionsSnapshot validates v and copies its top level into a fresh Options,
// so later changes to the caller's map cannot reach a queued request.
func optionsSnapshot(v interface{}) (Options, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, &TypeError{Value: v, Err: ErrInvalidOptions}
	}
	if rv.IsNil() {
		return nil, nil
	}

	res := make(Options, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		res[iter.Key().String()] = iter.Value().Interface()
	}

	return res, nil
}

// htmlSource accepts any string kind or finite number. Numbers are
// rendered the way a JavaScript caller would see them, so 0 is valid HTML.
func htmlSource(v interface{}) (string, error) {
	if v == nil {
		return "", ErrNoHTML
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return "", ErrNoHTML
		}
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return "", ErrNoHTML
		}
		if math.IsInf(f, 0) {
			return "", &TypeError{Value: v, Err: ErrInvalidHTML}
		}
		return formatNumber(f, rv.Type().Bits()), nil
	}

	return "", &TypeError{Value: v, Err: ErrInvalidHTML}
}

func formatNumber(f float64, bits int) string {
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, bits)
		s = strings.Replace(s, "e+0", "e+", 1)
		return strings.Replace(s, "e-0", "e-", 1)
	}

	return strconv.FormatFloat(f, 'f', -1, bits)
}
