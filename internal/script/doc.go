// SPDX-License-Identifier: MPL-2.0

// Package script discovers annotated shell scripts, parses their metadata and
// orders them into an execution plan.
//
// A script declares its metadata in comments:
//
//	# @vercel.name Deploy preview
//	# @vercel.description Deploys the current branch
//	# @vercel.after ./build.sh
//	# @vercel.requires ./login.sh VERCEL_TOKEN VERCEL_ORG
//	# @vercel.arg PROJECT_DIR Path to the project checkout
//	# @vercel.opt {"type":"boolean","name":"PROD","description":"Deploy to production?"}
//	# @vercel.stdin inherit
//
// Scripts are either embedded in the binary (addressed by bare filename) or
// found in user-configured directories (addressed by canonical absolute path).
package script
