// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the vss command tree. The root command selects and
// runs scripts; subcommands manage script directories, list scripts, scaffold
// new ones and generate shell completions.
package cmd
