package main

import (
	"os"

	"github.com/zjrosen/wavtouch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
