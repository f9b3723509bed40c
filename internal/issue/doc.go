// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into user-facing guidance.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for recovery. Issue holds longer Markdown guidance for the
// common failure classes, rendered in the terminal with glamour.
package issue
