// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import (
	"context"

	"github.com/Veraticus/rechain/pkg/acquire"
)

// Matcher decides whether text survives the filter and what is printed.
type Matcher interface {
	Match(text string) (string, bool)
	Len() int
}

// Source resolves a file path or URL to text.
type Source interface {
	Acquire(ctx context.Context, identifier string, multiline bool) (acquire.Input, error)
}
