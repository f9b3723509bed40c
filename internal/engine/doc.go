// SPDX-License-Identifier: MPL-2.0

// Package engine executes planned scripts one after another.
//
// Every script runs through the runtime shim as a subprocess. Its stdout and
// stderr are drained concurrently and printed with a coloured "[label]"
// prefix, while exported variables are collected from the inline marker
// protocol and from the environment snapshot files (see package exports).
// Exports are recorded per script pathname and handed to later scripts that
// declare them with @vercel.requires. The first failing script halts the run.
// A spawned script is never killed: cancellation takes effect between scripts.
package engine
