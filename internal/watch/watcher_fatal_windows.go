// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes that leave ReadDirectoryChangesW unusable.
const (
	errnoTooManyOpenFiles = syscall.Errno(4)
	errnoInvalidHandle    = syscall.Errno(6)
	errnoNotEnoughMemory  = syscall.Errno(8)
)

// isFatal reports whether an fsnotify error means the directory handle or its
// notification buffer is gone, after which no further events will arrive.
func isFatal(err error) bool {
	return errors.Is(err, errnoTooManyOpenFiles) ||
		errors.Is(err, errnoInvalidHandle) ||
		errors.Is(err, errnoNotEnoughMemory)
}
