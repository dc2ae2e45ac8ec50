// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	_ "github.com/tliron/commonlog/simple"

	"crnc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "crnc:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
