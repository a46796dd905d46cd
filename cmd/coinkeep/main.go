// Package main is the single-binary entrypoint for Coinkeep.
package main

import "github.com/coinkeep/coinkeep/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
