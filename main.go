// Package main is the entry point for the intellisql command.
package main

import (
	"github.com/intellisql/intellisql/cmd"
)

func main() {
	cmd.Execute()
}
