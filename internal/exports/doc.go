// SPDX-License-Identifier: MPL-2.0

// Package exports implements the protocol scripts use to hand environment
// variables to the scripts that run after them.
//
// A script exports variables either inline on stdout:
//
//	### VSS_EXPORTS_BEGIN ###
//	API_URL="https://example.test"
//	### VSS_EXPORTS_END ###
//
// or by letting the runtime shim dump its environment (export -p) to the
// files named by VSS_PRE_ENV_FILE and VSS_POST_ENV_FILE before and after the
// script body; the variables that appear only in the second dump are exports.
package exports
