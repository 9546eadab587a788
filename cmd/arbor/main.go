// Package main provides the arbor CLI.
package main

import "github.com/mesh-intelligence/arbor/internal/cli"

func main() {
	cli.Execute()
}
