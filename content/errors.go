package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPublishedContent is returned when the home view has nothing to show.
	ErrNoPublishedContent = errors.New("no published content")
	// ErrPageNotFound is returned when no published item carries the requested slug.
	ErrPageNotFound = errors.New("page not found")
)

// ValidationError reports a missing or malformed frontmatter field.
type ValidationError struct {
	Locator string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid frontmatter: %s %s", e.Field, e.Reason)
	if e.Locator != "" {
		msg = e.Locator + ": " + msg
	}
	return msg
}

// NotFoundError is a lookup miss against a successfully built index.
type NotFoundError struct {
	Slug string
	Kind error // ErrNoPublishedContent or ErrPageNotFound
}

func (e *NotFoundError) Error() string {
	if e.Slug == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %q", e.Kind, e.Slug)
}

func (e *NotFoundError) Is(target error) bool {
	return target == e.Kind
}

// IOError wraps a scan or read failure against the backing source.
type IOError struct {
	Op      string
	Locator string
	Err     error
}

func (e *IOError) Error() string {
	if e.Locator == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Locator, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// RenderError wraps a failure reported by the markdown renderer.
type RenderError struct {
	Locator string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Locator, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
