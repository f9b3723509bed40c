// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a script exit status. The zero value means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid reports whether the code is in the POSIX range.
func (c ExitCode) IsValid() (bool, []error) {
	if c < 0 || c > 255 {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

// IsSuccess reports whether the code is zero.
func (c ExitCode) IsSuccess() bool { return c == 0 }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// exitCodeOf extracts the exit status from the error returned by
// exec.Cmd.Wait. Codes that are unavailable (for example when the process was
// killed by a signal) map to 1.
func exitCodeOf(err error) (ExitCode, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1, err
	}
	code := ExitCode(exitErr.ExitCode())
	if ok, _ := code.IsValid(); !ok {
		return 1, nil
	}
	return code, nil
}
