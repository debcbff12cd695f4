// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "kitty-cli" runs kitty scenarios against a local database and serves the
// query API.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/ava-labs/kittyvm/cmd/kitty-cli/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		color.Red("kitty-cli failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
