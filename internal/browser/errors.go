package browser

import "fmt"

// InitializationError means the browser process could not be launched. It is
// fatal: Fetch does not retry it.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("browser initialization failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// NavigationError means a page failed to reach its ready state in time. It is
// retryable and only surfaces to the caller once retries are exhausted.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }
