// SPDX-License-Identifier: MPL-2.0

// Package tui implements the interactive prompts of vss on top of
// charmbracelet/huh: script selection, argument and option collection,
// confirmations, and the lipgloss tables used by listing commands.
package tui
