// Package main is the entry point for the loltitles CLI tool, which profiles
// League of Legends match histories and assigns flavor titles to lobby members.
package main

import "github.com/pable/go-lol-titles/cmd"

func main() {
	cmd.Execute()
}
