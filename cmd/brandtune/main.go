// Package main is the entry point for the brandtune CLI, which turns a
// corpus of social-media feedback into one emotion-matched song per
// discovered topic.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
