package httpclient

import (
	"fmt"
	"time"
)

// HTTPStatusError reports a response outside the 2xx range. The body is never read.
type HTTPStatusError struct {
	Code int
	Text string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP Error: %d %s", e.Code, e.Text)
}

// TimeoutError reports a request aborted because no response arrived in time.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Request timeout after %dms", e.Duration.Milliseconds())
}

// DecodeError reports a successful response whose body could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NetworkError reports a transport failure before any response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
