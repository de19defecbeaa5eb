// Package main is the entry point for the levelsweep CLI.
package main

import "github.com/mapforge/levelsweep/cmd"

func main() {
	cmd.Execute()
}
