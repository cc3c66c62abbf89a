package embedding

import (
	"errors"
	"fmt"
)

// ErrUnsupportedInput is returned for input a provider cannot embed.
var ErrUnsupportedInput = errors.New("unsupported input")

// ErrProvider classifies a failure of an embedding provider.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrProvider struct {
	Provider string
	Model    string
	Err      error
}

func (e *ErrProvider) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("embedding provider %s (%s): %v", e.Provider, e.Model, e.Err)
	}
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

func (e *ErrProvider) Unwrap() error { return e.Err }
