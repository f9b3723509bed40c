// SPDX-License-Identifier: MPL-2.0

// Package testutil holds helpers shared by vss tests: environment and working
// directory overrides with cleanup, and builders for script directories.
package testutil
