// SPDX-License-Identifier: MPL-2.0

// Package config persists vss state in two JSON documents.
//
// The global document (~/.vss.json) holds argument values shared by every
// project and the list of external script directories. The application
// document (.vss-app.json in the working directory) holds the last script
// selection and option values of that project. Both are validated against
// the embedded CUE schema (config_schema.cue) when read.
//
// Runtime settings that never hit disk (debug output, accessible prompts,
// cache directory, extra script directories) are resolved with Viper from
// flags and VSS_* environment variables.
package config
