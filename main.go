// SPDX-License-Identifier: MPL-2.0

package main

import cmd "vss-cli/cmd/vss"

func main() {
	cmd.Execute()
}
