// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is an error that tells the user what failed and how to
	// recover. Build one with ErrorContext:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("add script directory").
	//		WithResource(dir).
	//		WithSuggestion("Check that the path exists").
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load configuration".
		Operation string
		// Resource names the file or entity involved, if any.
		Resource string
		// Suggestions are recovery hints shown below the message.
		Suggestions []string
		// Cause is the underlying error, if any.
		Cause error
	}

	// ErrorContext builds an ActionableError incrementally.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to ")
	sb.WriteString(e.Operation)
	if e.Resource != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Resource)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by the suggestions. In verbose mode
// the unwrapped cause chain is appended.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range e.Suggestions {
			sb.WriteString("\n  • ")
			sb.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		sb.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&sb, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return sb.String()
}

// HasSuggestions reports whether any suggestion is attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the failed operation.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a recovery hint.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.suggestions = append(c.suggestions, s)
	return c
}

// Wrap sets the underlying error.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build returning the error interface, so a missing operation
// yields a nil error rather than a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
