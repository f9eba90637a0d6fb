package helper

import "fmt"

// NewError wraps err with the operation that failed.
// The original error stays reachable through errors.Is and errors.As.
func NewError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("error %s: %w", operation, err)
}
