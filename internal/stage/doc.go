// SPDX-License-Identifier: MPL-2.0

// Package stage materializes the runtime shim and embedded scripts on disk so
// they can be executed as ordinary files.
//
// Files live under the user cache directory and are only rewritten when their
// content changes.
package stage
