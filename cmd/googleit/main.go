package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
