package main

import (
	"os"
)

func main() {
	if err := newRootCmd(loadContainer).Execute(); err != nil {
		os.Exit(1)
	}
}
