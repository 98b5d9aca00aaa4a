/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/tickwire/cmd/tickwire/cmd"
)

func main() {
	cmd.Execute()
}
