package connection

import "fmt"

// TransportError is a network-level failure (connection refused, DNS,
// timeout). Transport failures are never retried.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestError is a non-success HTTP response from the target endpoint,
// including an authentication failure that survived the single
// re-authentication retry. The body is kept for diagnosis.
type RequestError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *RequestError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, truncate(e.Body, 512))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
