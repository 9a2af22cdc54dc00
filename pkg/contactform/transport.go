package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"
)

// ContactPath is the fixed endpoint path on the portfolio backend.
const ContactPath = "/api/contact"

// ErrSubmissionFailed matches every transport failure, network or HTTP.
var ErrSubmissionFailed = errors.New("contactform: submission failed")

// SubmissionError describes a failed send. StatusCode is zero for
// network-level failures.
type SubmissionError struct {
	StatusCode int
	Message    string
	Fields     []apperror.FieldError
	Err        error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("contact submission rejected (%d): %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("contact submission rejected (%d)", e.StatusCode)
	default:
		return fmt.Sprintf("contact submission failed: %v", e.Err)
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// FieldErrors maps the server's field errors onto form fields. Entries for
// fields the form does not have (such as "body") are dropped.
func (e *SubmissionError) FieldErrors() validation.FieldErrors {
	out := validation.FieldErrors{}
	for _, fe := range e.Fields {
		if f, ok := validation.ParseField(fe.Field); ok {
			out[f] = fe.Message
		}
	}
	return out
}

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmissionFailed }

// HTTPTransport posts the draft as JSON. One attempt, no retry.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTransport targets baseURL + ContactPath. A nil client means
// http.DefaultClient.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		endpoint: strings.TrimRight(baseURL, "/") + ContactPath,
		client:   client,
	}
}

func (t *HTTPTransport) Endpoint() string { return t.endpoint }

type serverReply struct {
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors"`
}

func (t *HTTPTransport) Send(ctx context.Context, form validation.Form) error {
	body, err := json.Marshal(form)
	if err != nil {
		return &SubmissionError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return &SubmissionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var reply serverReply
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&reply)
	return &SubmissionError{
		StatusCode: resp.StatusCode,
		Message:    reply.Message,
		Fields:     reply.Errors,
	}
}
