// Package main is the entry point for the branchgen CLI.
package main

import "branchgen.dev/pkg/branchgen/cmd"

func main() {
	cmd.Execute()
}
