// Package main is the entry point for the invoice-audit CLI.
package main

import (
	"os"

	"github.com/ledgerguard/invoice-audit/cmd/invoice-audit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
