package llm

import "fmt"

// RequestError is returned when the backend cannot be reached or answers
// with a non-2xx status. Err holds the underlying transport error or a
// status description.
type RequestError struct {
	URL        string
	StatusCode int    // Zero for transport-level failures
	Body       string // Truncated response body for HTTP errors
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("LLM request failed: %s returned %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("LLM request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when the backend answers successfully but the
// body does not have the chat-completions shape. It is never retried.
type ProtocolError struct {
	Reason string
	Err    error // Decode error, if any
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected LLM response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected LLM response: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
