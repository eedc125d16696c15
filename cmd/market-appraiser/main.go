// Package main is the entry point for the market-appraiser server.
package main

import (
	"os"

	"github.com/gearmarket/market-appraiser/cmd/market-appraiser/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
