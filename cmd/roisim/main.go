// Command roisim projects call option value and ROI across future dates.
package main

import (
	"fmt"
	"os"

	"roi-simulator/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
