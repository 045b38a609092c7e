package main

import (
	"os"

	"github.com/Halone228/funpay-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
