package domain

import "fmt"

// SchemaViolationError marks malformed quiz content. It is fatal and
// author-facing: a violating document must never be served.
type SchemaViolationError struct {
	Err error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("quiz schema violation: %v", e.Err)
}

func (e *SchemaViolationError) Unwrap() error { return e.Err }

// SlugMismatchError marks a document whose declared slug differs from
// its storage key. This is a configuration error and fails fast rather
// than silently renaming the quiz.
type SlugMismatchError struct {
	Key  string
	Slug string
}

func (e *SlugMismatchError) Error() string {
	return fmt.Sprintf("quiz slug mismatch: document %q declares slug %q", e.Key, e.Slug)
}
