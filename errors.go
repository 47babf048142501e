package pdfkiwi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentinel errors returned by the library.
var (
	// ErrIncompleteCredentials is returned by [New] when the email or the token is empty.
	ErrIncompleteCredentials = errors.New("pdfkiwi: incomplete Pdf.kiwi API credentials")

	// ErrNoHTML is returned when the HTML source is missing or empty.
	ErrNoHTML = errors.New("pdfkiwi: no HTML provided")

	// ErrInvalidHTML is wrapped by a [TypeError] when the HTML source is
	// neither a string nor a finite number.
	ErrInvalidHTML = errors.New("pdfkiwi: invalid HTML string")

	// ErrInvalidOptions is wrapped by a [TypeError] when options are not a
	// string-keyed map.
	ErrInvalidOptions = errors.New("pdfkiwi: invalid options object")

	ErrNoFileName       = errors.New("pdfkiwi: no file name provided")
	ErrNoResponseWriter = errors.New("pdfkiwi: the response parameter is not a http.ResponseWriter")
)

// CodeTransport is the Code of a [ConversionError] for a request that got no
// response. HasCode is false for such errors, so an API that reports -1 itself
// is still told apart.
const CodeTransport = -1

// TypeError reports an argument of the wrong type.
type TypeError struct {
	Value interface{}
	Err   error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s (got %T)", e.Err, e.Value)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// ConversionError is returned when a queued conversion fails, either because
// no response was received or because the API answered with an error status.
type ConversionError struct {
	Message string

	// Code is the API error code. It is meaningful only when HasCode is set;
	// otherwise it is CodeTransport when no response was received and 0 when
	// the API gave no integer code.
	Code    int
	HasCode bool

	// Status is the HTTP status code, 0 when no response was received.
	Status int

	// Transport failure, nil for API errors
	err error
}

func newTransportError(err error) *ConversionError {
	return &ConversionError{Message: err.Error(), Code: CodeTransport, err: err}
}

func (e *ConversionError) Error() string {
	if !e.HasCode {
		return "pdfkiwi: " + e.Message
	}
	return fmt.Sprintf("pdfkiwi: %s (code: %d)", e.Message, e.Code)
}

// Unwrap returns the transport failure, so errors.Is reports
// context.DeadlineExceeded for a request cut short by a deadline.
func (e *ConversionError) Unwrap() error {
	return e.err
}

type apiErrorBody struct {
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message json.RawMessage `json:"message"`
	} `json:"error"`
}

// newAPIError normalizes an error response. Bodies that do not carry an
// error object are reported verbatim.
func newAPIError(status int, body []byte) *ConversionError {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		code, hasCode := parseCode(parsed.Error.Code)
		message := parseMessage(parsed.Error.Message)

		if hasCode || message != "" {
			if message == "" {
				message = "API error occurred, see the code."
			}
			return &ConversionError{Message: message, Code: code, HasCode: hasCode, Status: status}
		}
	}

	return &ConversionError{
		Message: "Unknown API error: " + strings.ToValidUTF8(string(body), "\uFFFD"),
		Status:  status,
	}
}

// parseCode accepts a JSON integer, an integral float or a string holding an
// integer. Anything else, null included, is no code.
func parseCode(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}

	return 0, false
}

func parseMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
