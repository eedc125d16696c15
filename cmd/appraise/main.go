// Package main is the entry point for the appraise CLI client.
package main

import (
	"github.com/gearmarket/market-appraiser/cmd/appraise/cmd"
)

func main() {
	cmd.Execute()
}
